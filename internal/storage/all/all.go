// Package all links every storage backend.
package all

import (
	_ "model-mapper/internal/storage/mssql"
	_ "model-mapper/internal/storage/postgres"
	_ "model-mapper/internal/storage/sqlite"
)
