package mission

// Config maps a difficulty to its question count and pass threshold.
// Unknown difficulties use the easy row.
func Config(d Difficulty) Spec {
	switch d {
	case Hard:
		return Spec{QuestionCount: 5, PassThreshold: 4}
	case Medium:
		return Spec{QuestionCount: 4, PassThreshold: 3}
	default:
		return Spec{QuestionCount: 3, PassThreshold: 2}
	}
}

// RewardsFor maps a difficulty to its score gain and fuel swing.
// Unknown difficulties use the easy row.
func RewardsFor(d Difficulty) Rewards {
	switch d {
	case Hard:
		return Rewards{ScoreGain: 100, FuelGain: 10, FuelLoss: 10}
	case Medium:
		return Rewards{ScoreGain: 75, FuelGain: 8, FuelLoss: 8}
	default:
		return Rewards{ScoreGain: 50, FuelGain: 5, FuelLoss: 5}
	}
}
