package config

import (
	"fmt"
	"time"
)

// Section names and environment prefixes
const (
	SectionSettings = "settings"
	SectionAuth     = "auth"
	SectionOpenAI   = "openai"
	SectionPostgres = "postgres"
	SectionQdrant   = "qdrant"
	SectionMinio    = "minio"
	SectionRedis    = "redis"

	AuthPrefix     = "SETTINGS__"
	OpenAIPrefix   = "OPENAI__"
	PostgresPrefix = "POSTGRES__"
	QdrantPrefix   = "QDRANT__"
	MinioPrefix    = "MINIO__"
	RedisPrefix    = "REDIS__"
)

// Settings is the fully validated configuration of the process
type Settings struct {
	BaseURL string

	Auth     AuthSettings
	OpenAI   OpenAISettings
	Postgres PostgresSettings
	Qdrant   QdrantSettings
	Minio    MinioSettings
	Redis    RedisSettings

	envFile    EnvFileStatus
	attributes []Attribute
}

// AuthSettings configures token signing
type AuthSettings struct {
	SecretKey                string
	Algorithm                string
	AccessTokenExpireMinutes int
}

// TokenTTL returns the access token lifetime
func (a AuthSettings) TokenTTL() time.Duration {
	return time.Duration(a.AccessTokenExpireMinutes) * time.Minute
}

// OpenAISettings configures the LLM API
type OpenAISettings struct {
	APIKey         string
	EmbeddingModel string
	ModelName      string
	Temperature    float64
}

// PostgresSettings configures the relational database
type PostgresSettings struct {
	Host     string
	Port     int
	Username string
	Password string
	DB       string
}

// DatabaseURL returns the connection URL for synchronous drivers
func (p PostgresSettings) DatabaseURL() string {
	return fmt.Sprintf("postgresql://%s:%s@%s:%d/%s", p.Username, p.Password, p.Host, p.Port, p.DB)
}

// AsyncDatabaseURL returns the connection URL in the asyncpg driver scheme
func (p PostgresSettings) AsyncDatabaseURL() string {
	return fmt.Sprintf("postgresql+asyncpg://%s:%s@%s:%d/%s", p.Username, p.Password, p.Host, p.Port, p.DB)
}

// QdrantSettings configures the vector database
type QdrantSettings struct {
	Host string
	Port int
}

// URL returns the Qdrant HTTP endpoint
func (q QdrantSettings) URL() string {
	return fmt.Sprintf("http://%s:%d", q.Host, q.Port)
}

// MinioSettings configures the object store
type MinioSettings struct {
	Host     string
	Username string
	Password string
}

// Endpoint returns the MinIO HTTP endpoint
func (m MinioSettings) Endpoint() string {
	return "http://" + m.Host
}

// RedisSettings configures the cache
type RedisSettings struct {
	Host string
	Port int
}

// URL returns the Redis connection URL, always on logical database 0
func (r RedisSettings) URL() string {
	return fmt.Sprintf("redis://%s:%d/0", r.Host, r.Port)
}

func readTopLevel(r *sectionReader) string {
	return read(r, Field[string]{Name: "BASE_URL", Default: "http://localhost:8000"})
}

func readAuth(r *sectionReader) AuthSettings {
	return AuthSettings{
		SecretKey:                read(r, Field[string]{Name: "SECRET_KEY", Required: true, Secret: true}),
		Algorithm:                read(r, Field[string]{Name: "ALGORITHM", Default: "HS256"}),
		AccessTokenExpireMinutes: read(r, Field[int]{Name: "ACCESS_TOKEN_EXPIRE_MINUTES", Default: 6000}),
	}
}

func readOpenAI(r *sectionReader) OpenAISettings {
	return OpenAISettings{
		APIKey:         read(r, Field[string]{Name: "API_KEY", Required: true, Secret: true}),
		EmbeddingModel: read(r, Field[string]{Name: "EMBEDDING_MODEL", Default: "text-embedding-3-large"}),
		ModelName:      read(r, Field[string]{Name: "MODEL_NAME", Default: "gpt-4o"}),
		Temperature:    read(r, Field[float64]{Name: "TEMPERATURE", Default: 0.2, Validate: between(0, 2)}),
	}
}

func readPostgres(r *sectionReader) PostgresSettings {
	return PostgresSettings{
		Host:     read(r, Field[string]{Name: "HOST", Default: "postgres"}),
		Port:     read(r, Field[int]{Name: "PORT", Default: 5432}),
		Username: read(r, Field[string]{Name: "USERNAME", Required: true}),
		Password: read(r, Field[string]{Name: "PASSWORD", Required: true, Secret: true}),
		DB:       read(r, Field[string]{Name: "DB", Required: true}),
	}
}

func readQdrant(r *sectionReader) QdrantSettings {
	return QdrantSettings{
		Host: read(r, Field[string]{Name: "HOST", Default: "qdrant"}),
		Port: read(r, Field[int]{Name: "PORT", Default: 6333}),
	}
}

func readMinio(r *sectionReader) MinioSettings {
	return MinioSettings{
		Host:     read(r, Field[string]{Name: "HOST", Required: true}),
		Username: read(r, Field[string]{Name: "USERNAME", Required: true}),
		Password: read(r, Field[string]{Name: "PASSWORD", Required: true, Secret: true}),
	}
}

func readRedis(r *sectionReader) RedisSettings {
	return RedisSettings{
		Host: read(r, Field[string]{Name: "HOST", Default: "redis"}),
		Port: read(r, Field[int]{Name: "PORT", Default: 6379}),
	}
}
