package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/matchmaker/internal/flagx"
	"github.com/joho/godotenv"
)

const defaultEnvFile = ".env"

// parseEnv loads a dotenv file (the -env-file flag, or ./.env when present)
// and then copies recognised process environment variables into config.
// Variables already set in the process environment are not overridden by the
// file. A missing default .env is not an error; an explicit file that cannot
// be read panics, like an unreadable JSON config.
func parseEnv(config *Config) {
	envFile := flagx.EnvFileFlags()
	explicit := envFile != ""
	if !explicit {
		envFile = defaultEnvFile
	}

	if err := godotenv.Load(envFile); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			panic(err)
		}
	}

	setString(&config.EndpointAddrHTTP, "HTTP_ADDRESS")
	setString(&config.EndpointAddrGRPC, "GRPC_ADDRESS")
	setString(&config.LogLevel, "LOG_LEVEL")

	setString(&config.Storage, "STORAGE")
	setString(&config.DatabaseDSN, "DATABASE_DSN")

	setString(&config.UserSecretKey, "JWT_SECRET_KEY")
	setString(&config.AdminSecretKey, "ADMIN_SECRET_KEY")
	setDuration(&config.UserTokenValidityDuration, "JWT_TTL")
	setDuration(&config.AdminTokenValidityDuration, "ADMIN_JWT_TTL")
	setInt(&config.BcryptCost, "BCRYPT_COST")
	setString(&config.GoogleClientID, "GOOGLE_CLIENT_ID")

	setString(&config.AWSRegion, "AWS_REGION")
	setString(&config.AWSAccessKeyID, "AWS_ACCESS_KEY_ID")
	setString(&config.AWSSecretAccessKey, "AWS_SECRET_ACCESS_KEY")
	setString(&config.DynamoDBEndpoint, "DYNAMODB_ENDPOINT")
	setString(&config.UsersTable, "USERS_TABLE")
	setString(&config.AdminsTable, "ADMINS_TABLE")
	setString(&config.ApplicationsTable, "APPLICATIONS_TABLE")

	setString(&config.S3Bucket, "S3_BUCKET")
	setString(&config.S3BaseEndpoint, "S3_ENDPOINT")
	setString(&config.PhotoContentType, "PHOTO_CONTENT_TYPE")
	setDuration(&config.PresignExpiry, "PRESIGN_EXPIRY")

	setString(&config.ResetBaseURL, "RESET_BASE_URL")
	setDuration(&config.ResetTokenValidity, "RESET_TOKEN_TTL")
	setString(&config.SMTPHost, "SMTP_HOST")
	setInt(&config.SMTPPort, "SMTP_PORT")
	setString(&config.SMTPUser, "SMTP_USER")
	setString(&config.SMTPPassword, "SMTP_PASSWORD")
	setString(&config.MailFrom, "MAIL_FROM")

	if v, ok := os.LookupEnv("CORS_ORIGINS"); ok && v != "" {
		config.CORSOrigins = splitList(v)
	}
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		panic(err)
	}
	*dst = n
}

func setDuration(dst *time.Duration, key string) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(err)
	}
	*dst = d
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
