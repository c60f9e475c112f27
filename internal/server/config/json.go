package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/matchmaker/internal/flagx"
	"github.com/dmitrijs2005/matchmaker/internal/timex"
)

// JsonConfig is the on-disk shape of the optional JSON config file. Durations
// use timex.Duration so both "15m" and integer nanoseconds are accepted.
// Fields left out of the file keep whatever value the earlier layers set.
type JsonConfig struct {
	EndpointAddrHTTP string `json:"endpoint_addr_http"`
	EndpointAddrGRPC string `json:"endpoint_addr_grpc"`
	LogLevel         string `json:"log_level"`

	Storage     string `json:"storage"`
	DatabaseDSN string `json:"database_dsn"`

	UserSecretKey              string         `json:"user_secret_key"`
	AdminSecretKey             string         `json:"admin_secret_key"`
	UserTokenValidityDuration  timex.Duration `json:"user_token_validity_duration"`
	AdminTokenValidityDuration timex.Duration `json:"admin_token_validity_duration"`
	BcryptCost                 int            `json:"bcrypt_cost"`
	GoogleClientID             string         `json:"google_client_id"`

	AWSRegion          string `json:"aws_region"`
	AWSAccessKeyID     string `json:"aws_access_key_id"`
	AWSSecretAccessKey string `json:"aws_secret_access_key"`
	DynamoDBEndpoint   string `json:"dynamodb_endpoint"`
	UsersTable         string `json:"users_table"`
	AdminsTable        string `json:"admins_table"`
	ApplicationsTable  string `json:"applications_table"`

	S3Bucket         string         `json:"s3_bucket"`
	S3BaseEndpoint   string         `json:"s3_base_endpoint"`
	PhotoContentType string         `json:"photo_content_type"`
	PresignExpiry    timex.Duration `json:"presign_expiry"`

	ResetBaseURL       string         `json:"reset_base_url"`
	ResetTokenValidity timex.Duration `json:"reset_token_validity"`
	SMTPHost           string         `json:"smtp_host"`
	SMTPPort           int            `json:"smtp_port"`
	SMTPUser           string         `json:"smtp_user"`
	SMTPPassword       string         `json:"smtp_password"`
	MailFrom           string         `json:"mail_from"`

	CORSOrigins []string `json:"cors_origins"`
}

// parseJson overlays values from the JSON file named by -c/-config. Without
// the flag nothing happens. An unreadable file or invalid JSON panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	overlay(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	overlay(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	overlay(&config.LogLevel, c.LogLevel)

	overlay(&config.Storage, c.Storage)
	overlay(&config.DatabaseDSN, c.DatabaseDSN)

	overlay(&config.UserSecretKey, c.UserSecretKey)
	overlay(&config.AdminSecretKey, c.AdminSecretKey)
	overlay(&config.UserTokenValidityDuration, c.UserTokenValidityDuration.Duration)
	overlay(&config.AdminTokenValidityDuration, c.AdminTokenValidityDuration.Duration)
	overlay(&config.BcryptCost, c.BcryptCost)
	overlay(&config.GoogleClientID, c.GoogleClientID)

	overlay(&config.AWSRegion, c.AWSRegion)
	overlay(&config.AWSAccessKeyID, c.AWSAccessKeyID)
	overlay(&config.AWSSecretAccessKey, c.AWSSecretAccessKey)
	overlay(&config.DynamoDBEndpoint, c.DynamoDBEndpoint)
	overlay(&config.UsersTable, c.UsersTable)
	overlay(&config.AdminsTable, c.AdminsTable)
	overlay(&config.ApplicationsTable, c.ApplicationsTable)

	overlay(&config.S3Bucket, c.S3Bucket)
	overlay(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	overlay(&config.PhotoContentType, c.PhotoContentType)
	overlay(&config.PresignExpiry, c.PresignExpiry.Duration)

	overlay(&config.ResetBaseURL, c.ResetBaseURL)
	overlay(&config.ResetTokenValidity, c.ResetTokenValidity.Duration)
	overlay(&config.SMTPHost, c.SMTPHost)
	overlay(&config.SMTPPort, c.SMTPPort)
	overlay(&config.SMTPUser, c.SMTPUser)
	overlay(&config.SMTPPassword, c.SMTPPassword)
	overlay(&config.MailFrom, c.MailFrom)

	if len(c.CORSOrigins) > 0 {
		config.CORSOrigins = c.CORSOrigins
	}
}

func overlay[T comparable](dst *T, v T) {
	var zero T
	if v != zero {
		*dst = v
	}
}
