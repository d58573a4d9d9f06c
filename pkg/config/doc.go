// Package config loads ragstack settings from the process environment and an
// optional environment file.
//
// # Overview
//
// Settings are grouped into sections. Every section reads its fields from
// environment variables named <PREFIX><FIELD>; the top-level fields have no
// prefix. When a variable is not set in the process environment the loader
// falls back to the same key in the environment file (".env" in the working
// directory by default). Keys are matched case-insensitively, with an
// exact-case match preferred. Unknown keys are ignored.
//
// # Sections
//
//	SETTINGS__SECRET_KEY                  required
//	SETTINGS__ALGORITHM                   HS256
//	SETTINGS__ACCESS_TOKEN_EXPIRE_MINUTES 6000
//
//	OPENAI__API_KEY                       required
//	OPENAI__EMBEDDING_MODEL               text-embedding-3-large
//	OPENAI__MODEL_NAME                    gpt-4o
//	OPENAI__TEMPERATURE                   0.2 (0 <= t <= 2)
//
//	POSTGRES__HOST                        postgres
//	POSTGRES__PORT                        5432
//	POSTGRES__USERNAME                    required
//	POSTGRES__PASSWORD                    required
//	POSTGRES__DB                          required
//
//	QDRANT__HOST                          qdrant
//	QDRANT__PORT                          6333
//
//	MINIO__HOST                           required
//	MINIO__USERNAME                       required
//	MINIO__PASSWORD                       required
//
//	REDIS__HOST                           redis
//	REDIS__PORT                           6379
//
//	BASE_URL                              http://localhost:8000
//
// # Usage Example
//
//	settings, err := config.Load()
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	db, err := sql.Open("postgres", settings.Postgres.DatabaseURL())
//
// A failed load returns a *ValidationError listing every missing or invalid
// field; no partially populated Settings is ever returned. Individual
// failures are *FieldError values and match ErrMissingField,
// ErrTypeCoercion or ErrOutOfRange with errors.Is.
//
// Load once at process start and pass the *Settings to the components that
// need it. The value is never modified after Load returns.
package config
