package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/rocketscienceinc/tictactoe-contract/internal/entity"
)

const (
	ResultOK    = "ok"
	ResultError = "error"
)

type Metrics struct {
	Invocations   *prometheus.CounterVec
	AuthFailures  *prometheus.CounterVec
	GamesFinished *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		Invocations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tictactoe_invocations_total",
				Help: "Total contract invocations by operation and result",
			},
			[]string{"operation", "result"},
		),
		AuthFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tictactoe_auth_failures_total",
				Help: "Total rejected authorization proofs by proof kind",
			},
			[]string{"proof"},
		),
		GamesFinished: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tictactoe_games_finished_total",
				Help: "Total finished games by outcome",
			},
			[]string{"outcome"},
		),
	}
}

func (that *Metrics) Invocation(operation string, err error) {
	result := ResultOK
	if err != nil {
		result = ResultError
	}

	that.Invocations.WithLabelValues(operation, result).Inc()
}

func (that *Metrics) AuthFailed(proofKind string) {
	that.AuthFailures.WithLabelValues(proofKind).Inc()
}

func (that *Metrics) GameFinished(winner entity.Winner) {
	outcome := string(winner)
	if winner == entity.WinnerNone {
		outcome = "draw"
	}

	that.GamesFinished.WithLabelValues(outcome).Inc()
}
