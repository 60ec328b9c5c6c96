package game

// Number of finished games kept for the rolling average.
const maxScores = 50

// Stats summarises finished games for the lifetime of the process. Nothing
// is written to disk.
type Stats struct {
	GamesPlayed int
	BestScore   int
	Scores      []int
}

// Record adds the score of a finished game.
func (s *Stats) Record(score int) {
	s.GamesPlayed++
	if score > s.BestScore {
		s.BestScore = score
	}

	if len(s.Scores) >= maxScores {
		s.Scores = s.Scores[1:]
	}
	s.Scores = append(s.Scores, score)
}

// AverageScore is the mean over the retained window.
func (s *Stats) AverageScore() float64 {
	if len(s.Scores) == 0 {
		return 0
	}

	sum := 0
	for _, score := range s.Scores {
		sum += score
	}
	return float64(sum) / float64(len(s.Scores))
}

func (s *Stats) clone() Stats {
	scores := make([]int, len(s.Scores))
	copy(scores, s.Scores)
	return Stats{
		GamesPlayed: s.GamesPlayed,
		BestScore:   s.BestScore,
		Scores:      scores,
	}
}
