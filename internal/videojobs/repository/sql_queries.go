package repository

const (
	createStatusTableQuery = `CREATE TABLE IF NOT EXISTS video_status (
					name       TEXT PRIMARY KEY,
					status     SMALLINT NOT NULL,
					created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
					updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
				)`
	createPendingQuery = `INSERT INTO video_status (name, status, created_at, updated_at)
					VALUES ($1, $2, now(), now())
					ON CONFLICT (name) DO UPDATE
					SET status = EXCLUDED.status, created_at = EXCLUDED.created_at, updated_at = EXCLUDED.updated_at`
	updateStatusQuery = `INSERT INTO video_status (name, status, created_at, updated_at)
					VALUES ($1, $2, now(), now())
					ON CONFLICT (name) DO UPDATE
					SET status = EXCLUDED.status, updated_at = GREATEST(video_status.updated_at, EXCLUDED.updated_at)`
	getStatusQuery = `SELECT name, status, created_at, updated_at FROM video_status WHERE name = $1`
)
