package sqlc

import (
	"context"
	"net"

	"github.com/sqlc-dev/pqtype"
)

// AnalyticsManager records per-server counters and engine results.
// Every row it writes is keyed by the address of this server.
type AnalyticsManager struct {
	queries  Querier
	serverIp pqtype.Inet
}

func NewAnalyticsManager(queries Querier, serverIpNet net.IPNet) *AnalyticsManager {
	return &AnalyticsManager{
		queries:  queries,
		serverIp: pqtype.Inet{IPNet: serverIpNet, Valid: true},
	}
}

func (a *AnalyticsManager) ServerIp() pqtype.Inet {
	return a.serverIp
}

func (a *AnalyticsManager) IncrementGamesCreatedCount(ctx context.Context) error {
	return a.queries.IncrementGamesCreatedCount(ctx, a.serverIp)
}

func (a *AnalyticsManager) GetGamesCreatedCount(ctx context.Context) (int64, error) {
	return a.queries.GetGamesCreatedCount(ctx, a.serverIp)
}

// InsertEngineGameResult stores how a finished game went for the
// computer. arg.ServerIp is overwritten with this server's address.
func (a *AnalyticsManager) InsertEngineGameResult(ctx context.Context, arg InsertEngineGameResultParams) error {
	arg.ServerIp = a.serverIp
	return a.queries.InsertEngineGameResult(ctx, arg)
}

func (a *AnalyticsManager) GetEngineAverageShots(ctx context.Context, strategy string) (float64, error) {
	return a.queries.GetEngineAverageShots(ctx, strategy)
}
