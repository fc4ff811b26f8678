package persist

import (
	"context"
	"time"
)

// SessionRow is one completed server run's telemetry.
type SessionRow struct {
	ServerName       string
	StartedAt        time.Time
	EndedAt          time.Time
	Ticks            int64
	StaticSpawned    int64
	MovingSpawned    int64
	Reused           int64
	Disabled         int64
	Destroyed        int64
	WaypointsReached int64
}

type SessionRepo struct {
	db *DB
}

func NewSessionRepo(db *DB) *SessionRepo {
	return &SessionRepo{db: db}
}

// SaveSession inserts one session row. Called once at shutdown.
func (r *SessionRepo) SaveSession(ctx context.Context, row *SessionRow) error {
	_, err := r.db.Pool.Exec(ctx,
		`INSERT INTO range_sessions
		        (server_name, started_at, ended_at, ticks,
		         static_spawned, moving_spawned, reused,
		         disabled, destroyed, waypoints_reached)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		row.ServerName, row.StartedAt, row.EndedAt, row.Ticks,
		row.StaticSpawned, row.MovingSpawned, row.Reused,
		row.Disabled, row.Destroyed, row.WaypointsReached,
	)
	return err
}
