package config

import (
	"flag"
	"os"
	"strings"
	"time"

	"github.com/dmitrijs2005/matchmaker/internal/flagx"
)

var allowedFlags = []string{
	"-a", "-g", "-d", "-s", "-k", "-t", "-r", "-b", "-e",
	"-storage", "-log-level", "-dynamodb-endpoint", "-google-client-id",
	"-reset-url", "-smtp-host", "-cors",
}

// parseFlags applies command-line flags on top of the other layers.
//
//	-a string   HTTP bind address (e.g. ":4000")
//	-g string   gRPC health bind address
//	-d string   PostgreSQL DSN (storage=postgres)
//	-s string   user token secret
//	-k string   admin token secret
//	-t int      user token validity, minutes
//	-r string   AWS region
//	-b string   S3 bucket
//	-e string   S3 base endpoint (e.g. MinIO)
//	-storage    dynamodb | postgres | memory
//
// Arguments are filtered through flagx.FilterArgs first so flags owned by
// other components do not cause parse errors here.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], allowedFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run the HTTP server")
	fs.StringVar(&config.EndpointAddrGRPC, "g", config.EndpointAddrGRPC, "address and port to run the gRPC health server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.UserSecretKey, "s", config.UserSecretKey, "user token secret key")
	fs.StringVar(&config.AdminSecretKey, "k", config.AdminSecretKey, "admin token secret key")

	userTokenValidity := fs.Int("t", int(config.UserTokenValidityDuration.Minutes()), "user token validity (in minutes)")

	fs.StringVar(&config.AWSRegion, "r", config.AWSRegion, "AWS region")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket for photos")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	fs.StringVar(&config.Storage, "storage", config.Storage, "record store backend: dynamodb, postgres or memory")
	fs.StringVar(&config.LogLevel, "log-level", config.LogLevel, "log level")
	fs.StringVar(&config.DynamoDBEndpoint, "dynamodb-endpoint", config.DynamoDBEndpoint, "DynamoDB endpoint override")
	fs.StringVar(&config.GoogleClientID, "google-client-id", config.GoogleClientID, "Google OAuth client id")
	fs.StringVar(&config.ResetBaseURL, "reset-url", config.ResetBaseURL, "password reset link base URL")
	fs.StringVar(&config.SMTPHost, "smtp-host", config.SMTPHost, "SMTP host, empty to log mail instead")

	cors := fs.String("cors", strings.Join(config.CORSOrigins, ","), "comma separated CORS origins")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.UserTokenValidityDuration = time.Duration(*userTokenValidity) * time.Minute
	config.CORSOrigins = splitList(*cors)
}
