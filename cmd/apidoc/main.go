// Command apidoc writes the OpenAPI document of the beer API to a file and,
// optionally, publishes it to an S3 compatible bucket.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/rl1809/brewery/internal/adapter/handler"
	"github.com/rl1809/brewery/internal/apidoc"
)

func main() {
	var (
		out       = flag.String("out", "openapi.json", "output file, - for stdout")
		title     = flag.String("title", "Brewery API", "document title")
		version   = flag.String("version", "v1", "document version")
		endpoint  = flag.String("s3-endpoint", "", "S3 endpoint, empty to skip publishing")
		bucket    = flag.String("s3-bucket", "api-docs", "S3 bucket")
		key       = flag.String("s3-key", "brewery/openapi.json", "S3 object key")
		accessKey = flag.String("s3-access-key", os.Getenv("S3_ACCESS_KEY"), "S3 access key")
		secretKey = flag.String("s3-secret-key", os.Getenv("S3_SECRET_KEY"), "S3 secret key")
		secure    = flag.Bool("s3-secure", true, "use TLS for S3")
	)
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	spec, err := apidoc.Build(*title, *version, handler.Routes())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build openapi document")
	}

	b, err := json.MarshalIndent(spec, "", "  ")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to encode openapi document")
	}

	if *out == "-" {
		_, err = os.Stdout.Write(append(b, '\n'))
	} else {
		err = os.WriteFile(*out, append(b, '\n'), 0o644)
	}
	if err != nil {
		log.Fatal().Err(err).Str("out", *out).Msg("failed to write openapi document")
	}
	log.Info().Str("out", *out).Int("paths", len(spec.Paths.MapOfPathItemValues)).Msg("wrote openapi document")

	if *endpoint == "" {
		return
	}

	publisher, err := apidoc.NewPublisher(apidoc.S3Config{
		Endpoint:  *endpoint,
		AccessKey: *accessKey,
		SecretKey: *secretKey,
		Bucket:    *bucket,
		Key:       *key,
		Secure:    *secure,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create publisher")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := publisher.Publish(ctx, spec); err != nil {
		log.Fatal().Err(err).Msg("failed to publish openapi document")
	}
	log.Info().Str("bucket", *bucket).Str("key", *key).Msg("published openapi document")
}
