package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/aprakasa/go-rental-orders/internal/auth"
	"github.com/aprakasa/go-rental-orders/internal/booking"
	"github.com/aprakasa/go-rental-orders/internal/config"
	"github.com/aprakasa/go-rental-orders/internal/gateway"
	"github.com/aprakasa/go-rental-orders/internal/httpx"
	kafkax "github.com/aprakasa/go-rental-orders/internal/kafka"
	"github.com/aprakasa/go-rental-orders/internal/postgres"
	"github.com/aprakasa/go-rental-orders/internal/redisx"
	"github.com/aprakasa/go-rental-orders/internal/rental"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer db.Close()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producers: lifecycle & capacity rejections (dua topic berbeda)
	prod := kafkax.NewProducer(cfg.KafkaBrokers, rental.TopicOrderStatus, 1024)
	prod.Start(ctx)
	prodRJ := kafkax.NewProducer(cfg.KafkaBrokers, rental.TopicCapacityRejected, 1024)
	prodRJ.Start(ctx)

	// payment gateway collaborator, injected, closed on shutdown
	gw := gateway.New(cfg.GatewayBaseURL, cfg.GatewayKeyID, cfg.GatewayKeySecret)
	defer gw.Close()

	authn := &auth.HMACAuthenticator{Secret: []byte(cfg.AuthTokenSecret)}

	repo := &rental.Repo{DB: db}
	svc := &booking.Service{
		Repo:              repo,
		Redis:             rdb,
		Producer:          prod,
		ProducerReject:    prodRJ,
		ServiceName:       cfg.ServiceName,
		LateFeeDailyCents: cfg.LateFeeDailyCents,
	}

	router := httpx.NewRouter()
	(&httpx.RentalsHandler{Svc: svc}).Register(router, authn)
	(&httpx.ProductsHandler{Repo: repo}).Register(router, authn)
	(&httpx.PaymentsHandler{Svc: svc, Gateway: gw}).Register(router, authn)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	// graceful shutdown
	go func() {
		log.Printf("HTTP listening at %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	prod.Close() // tutup inbox -> flush & close writer
	prodRJ.Close()
	cancel() // stop producer loops
	prod.WaitClosed()
	prodRJ.WaitClosed()
}
