// @title Shape-Logs API
// @version 0.1.0
// @description Food, water, weight, exercise and sleep logs of the Shape fitness tracker
// @BasePath /
// @accept json
// @produce json
// @schemes https

// @securityDefinitions.apikey Auth0
// @in header
// @name Authorization
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tidepool-org/go-common"
	"github.com/tidepool-org/go-common/clients"
	"github.com/tidepool-org/go-common/clients/disc"
	"github.com/tidepool-org/go-common/clients/mongo"
	muxprom "gitlab.com/msvechla/mux-prometheus/pkg/middleware"

	"github.com/mdblp/shape-logs/api"
	"github.com/mdblp/shape-logs/auth"
	common2 "github.com/mdblp/shape-logs/common"
	"github.com/mdblp/shape-logs/infrastructure"
	"github.com/mdblp/shape-logs/usecase"
)

type (
	// SLConfig holds the configuration for the `shape-logs` service
	SLConfig struct {
		clients.Config
		Service disc.ServiceListing `json:"service"`
		Mongo   mongo.Config        `json:"mongo"`
	}

	// store is the active log and user storage
	store struct {
		logs     usecase.LogRepository
		users    usecase.UserRepository
		adapter  usecase.DatabaseAdapter
		shutdown func()
	}
)

const (
	backendPostgres = "postgres"
	backendMongo    = "mongo"
)

func openStore(ctx context.Context, slconfig *SLConfig, logger *log.Logger) (*store, error) {
	backend := common2.GetEnvDefault("STORE_BACKEND", backendPostgres)
	logger.Println("Using store backend: ", backend)
	if backend == backendMongo {
		slconfig.Mongo.FromEnv()
		mongoRepository, err := infrastructure.NewLogsMongoRepository(&slconfig.Mongo, logger)
		if err != nil {
			return nil, err
		}
		mongoRepository.Start()
		return &store{
			logs:     mongoRepository,
			users:    mongoRepository,
			adapter:  mongoRepository,
			shutdown: func() { mongoRepository.Close() },
		}, nil
	}

	db, err := infrastructure.OpenPostgres(ctx, os.Getenv("DATABASE_URL"))
	if err != nil {
		return nil, err
	}
	postgresRepository := infrastructure.NewLogsPostgresRepository(db)
	return &store{
		logs:    postgresRepository,
		users:   postgresRepository,
		adapter: postgresRepository,
		shutdown: func() {
			if err := postgresRepository.Close(); err != nil {
				logger.Printf("Closing the database failed: %v", err)
			}
		},
	}, nil
}

func main() {
	var slconfig SLConfig
	logger := log.New(os.Stdout, api.LogsAPIPrefix, log.LstdFlags|log.Lshortfile)

	if err := common2.LoadDotEnv(); err != nil {
		logger.Fatal("Problem loading .env file: ", err)
	}
	if err := common.LoadEnvironmentConfig(
		[]string{"SHAPE_LOGS_SERVICE", "SHAPE_LOGS_ENV"},
		&slconfig,
	); err != nil {
		logger.Fatal("Problem loading config: ", err)
	}
	authSecret := os.Getenv("API_SECRET")
	if authSecret == "" {
		logger.Fatal("Env var API_SECRET is not provided or empty")
	}
	authClient, err := auth.NewClient(authSecret, auth.ConfigFromEnv())
	if err != nil {
		logger.Fatal(err)
	}

	// AWS part configuration
	bucketSuffix := os.Getenv("BUCKET_SUFFIX")
	if bucketSuffix == "" {
		logger.Fatal("Env var BUCKET_SUFFIX is not provided or empty")
	}
	region := os.Getenv("REGION")
	if region == "" {
		region = "eu-west-1"
		logger.Println("Using default aws region: ", region)
	}

	url := os.Getenv("S3_ENDPOINT_URL")
	customResolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		if url != "" && service == s3.ServiceID {
			logger.Println("Using custom s3 endpoint: ", url)
			return aws.Endpoint{
				PartitionID:       "aws",
				URL:               url,
				SigningRegion:     region,
				HostnameImmutable: true,
			}, nil
		}
		return aws.Endpoint{}, &aws.EndpointNotFoundError{}
	})

	awsconfig, err := config.LoadDefaultConfig(context.TODO(), config.WithEndpointResolverWithOptions(customResolver), config.WithRegion(region))
	if err != nil {
		logger.Fatal(err)
	}
	uploader, err := infrastructure.NewS3Uploader(s3.NewFromConfig(awsconfig), bucketSuffix)
	if err != nil {
		logger.Fatal(err)
	}

	var labeler usecase.ImageLabeler
	if common2.GetEnvBool("FOOD_ANALYSIS_ENABLED") {
		labeler = infrastructure.NewRekognitionLabeler(rekognition.NewFromConfig(awsconfig))
		logger.Print("environment variable FOOD_ANALYSIS_ENABLED exported, food analysis started")
	} else {
		logger.Print("environment variable FOOD_ANALYSIS_ENABLED not exported, food analysis disabled")
	}

	/*
	 * Instrumentation setup
	 */
	instrumentation := muxprom.NewCustomInstrumentation(true, "dblp", "shapelogs", prometheus.DefBuckets, nil, prometheus.DefaultRegisterer)

	activeStore, err := openStore(context.Background(), &slconfig, logger)
	if err != nil {
		logger.Fatal(err)
	}
	defer activeStore.shutdown()

	rtr := mux.NewRouter()
	rtr.Use(instrumentation.Middleware)
	rtr.Path("/metrics").Handler(promhttp.Handler())

	/*
	 * Logs-Api setup
	 */
	clock := clockwork.NewRealClock()
	dayGrouper := usecase.NewDayGrouper(logger, activeStore.logs, clock)
	logsUseCase := usecase.NewLogsUseCase(logger, activeStore.logs, clock)
	usersUseCase := usecase.NewUsersUseCase(logger, activeStore.users, clock)
	foodAnalyzer := usecase.NewFoodAnalyzer(logger, labeler)
	exporter := usecase.NewExporter(logger, logsUseCase, uploader, clock)
	exportController := api.NewExportController(logger, exporter)

	logsAPI := api.InitAPI(exportController, dayGrouper, logsUseCase, usersUseCase, foodAnalyzer, activeStore.adapter, authClient, logger)
	logsAPI.SetHandlers("/api", rtr)

	allowedOrigins := strings.Split(common2.GetEnvDefault("CORS_ALLOWED_ORIGINS", "*"), ",")
	corsHandler := handlers.CORS(
		handlers.AllowedOrigins(allowedOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Authorization", "Content-Type", api.TimezoneHeader, auth.SessionTokenHeader, "x-tidepool-trace-session"}),
	)(rtr)

	// ability to return compressed (gzip/deflate) responses if client browser accepts it
	gzipHandler := handlers.CompressHandler(corsHandler)

	done := make(chan bool)
	server := common.NewServer(&http.Server{
		Addr:    slconfig.Service.GetPort(),
		Handler: gzipHandler,
	})

	var start func() error
	if slconfig.Service.Scheme == "https" {
		sslSpec := slconfig.Service.GetSSLSpec()
		start = func() error { return server.ListenAndServeTLS(sslSpec.CertFile, sslSpec.KeyFile) }
	} else {
		start = func() error { return server.ListenAndServe() }
	}
	if err := start(); err != nil {
		logger.Fatal(err)
	}

	// Wait for SIGINT (Ctrl+C) or SIGTERM to stop the service
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		for {
			<-sigc
			server.Close()
			done <- true
		}
	}()

	<-done
}
