package database

//go:generate sh -c "cd ../.. && go run internal/database/tools/generate_schema.go"
