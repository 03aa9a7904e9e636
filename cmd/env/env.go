package env

const (
	// Prefix is the env variable prefix shared by all commands
	Prefix = "CCR"

	// DBURLSuffix is the env variable suffix for the DB connection string
	DBURLSuffix = "_DB_URL"
)
