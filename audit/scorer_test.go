package audit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRateScorer(t *testing.T) {
	for scenario, fn := range map[string]func(t *testing.T, s *rateScorer){
		"normal traffic scores zero": func(t *testing.T, s *rateScorer) {
			base := time.Now()
			for i := 0; i < 5; i++ {
				score := s.Score(Event{Actor: "diagnosis", Timestamp: base.Add(time.Duration(i) * time.Second)})
				require.Zero(t, score)
			}
		},
		"burst above the rate limit scores": func(t *testing.T, s *rateScorer) {
			base := time.Now()
			var last float64
			for i := 0; i < 15; i++ {
				last = s.Score(Event{Actor: "booking", Timestamp: base.Add(time.Duration(i) * time.Millisecond)})
			}
			require.Greater(t, last, 0.0)
		},
		"slow call scores": func(t *testing.T, s *rateScorer) {
			score := s.Score(Event{Actor: "engagement", Timestamp: time.Now(), Latency: 10 * time.Second})
			require.Greater(t, score, 1.0)
		},
		"actors are scored independently": func(t *testing.T, s *rateScorer) {
			base := time.Now()
			for i := 0; i < 15; i++ {
				s.Score(Event{Actor: "noisy", Timestamp: base.Add(time.Duration(i) * time.Millisecond)})
			}
			quiet := s.Score(Event{Actor: "quiet", Timestamp: base})
			require.Zero(t, quiet)
		},
		"events outside the window age out": func(t *testing.T, s *rateScorer) {
			base := time.Now()
			for i := 0; i < 15; i++ {
				s.Score(Event{Actor: "sweep", Timestamp: base.Add(time.Duration(i) * time.Millisecond)})
			}
			score := s.Score(Event{Actor: "sweep", Timestamp: base.Add(2 * time.Minute)})
			require.Zero(t, score)
		},
	} {
		t.Run(scenario, func(t *testing.T) {
			fn(t, NewRateScorer(time.Minute, 10, 2*time.Second))
		})
	}
}

func TestJsScorer(t *testing.T) {
	scorer := NewJsScorer(`$.score = $.action === "booking.confirmed" ? 0 : 0.7;`)

	require.Equal(t, 0.0, scorer.Score(Event{Action: "booking.confirmed"}))
	require.Equal(t, 0.7, scorer.Score(Event{Action: "sla.expired"}))
}

func TestJsScorerBadScriptScoresZero(t *testing.T) {
	scorer := NewJsScorer(`this is not javascript`)
	require.Equal(t, 0.0, scorer.Score(Event{Action: "anything"}))
}
