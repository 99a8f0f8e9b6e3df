package boot

import (
	"context"
	"errors"
	"log"
	"os"
	"path"
	"time"

	"github.com/Ryan-Shaik/TechWave/src/checkout"
	"github.com/Ryan-Shaik/TechWave/src/config"
	"github.com/Ryan-Shaik/TechWave/src/db"
	"github.com/Ryan-Shaik/TechWave/src/events"
	"github.com/Ryan-Shaik/TechWave/src/lib"
	"github.com/Ryan-Shaik/TechWave/src/models"
	"github.com/Ryan-Shaik/TechWave/src/payments"
	"github.com/Ryan-Shaik/TechWave/src/probe"
	"github.com/Ryan-Shaik/TechWave/src/store"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Services are the wired collaborators handed to the HTTP layer.
type Services struct {
	Store     *store.FallbackStore
	Prober    *probe.Prober
	Processor payments.Processor
	// Primary is the real processor behind Processor, nil when none is
	// configured.
	Primary   payments.Processor
	Guard     checkout.Guard
	Publisher events.Publisher
}

func InitDb() (*gorm.DB, error) {
	db, err := db.GetDb()
	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(
		&models.Purchase{},
		&models.ConnectionTest{},
	)
	if err != nil {
		log.Printf("error migration: %s\n", err.Error())
		return nil, err
	}

	return db, nil
}

// InitLocalKV is the key-value backend for fallback records and mock
// intents: Redis when configured, process memory otherwise.
func InitLocalKV() store.KeyValue {
	if rdb := lib.GetRedisClient(); rdb != nil {
		return lib.NewRedisKV(rdb)
	}
	return store.NewMemoryKV()
}

// InitStore selects the remote store and wraps it with local fallback.
func InitStore(ctx context.Context, cfg *config.Config, kv store.KeyValue) (*store.FallbackStore, *probe.Prober) {
	local := store.NewLocalStore(kv)

	var remote interface {
		store.PurchaseStore
		probe.Target
	}
	switch cfg.RemoteStore {
	case config.RemoteFirestore:
		fs, err := lib.GetFirestore(ctx)
		if err != nil {
			log.Printf("[Boot] Firestore unavailable, purchases will be stored locally: %s\n", err.Error())
			break
		}
		remote = store.NewFirestoreStore(fs)
	case config.RemotePostgres:
		gdb, err := InitDb()
		if err != nil {
			log.Printf("[Boot] Postgres unavailable, purchases will be stored locally: %s\n", err.Error())
			break
		}
		remote = store.NewSQLStore(gdb)
	case config.RemoteNone:
	default:
		log.Printf("[Boot] Unknown REMOTE_STORE %q, purchases will be stored locally\n", cfg.RemoteStore)
	}
	if remote == nil {
		return store.NewFallbackStore(nil, local, nil), nil
	}
	prober := probe.New(remote)
	return store.NewFallbackStore(remote, local, prober), prober
}

// InitProcessor prefers Stripe, then the payment backend, and always falls
// back to mock intents kept in kv.
func InitProcessor(cfg *config.Config, kv store.KeyValue) *payments.FallbackProcessor {
	var primary payments.Processor
	if sc := lib.GetStripeClient(); sc != nil {
		primary = payments.NewStripeProcessor(sc)
	}
	if cfg.Payments.BackendURL != "" {
		primary = payments.NewBackendProcessor(cfg.Payments.BackendURL, primary)
	}
	if primary == nil {
		log.Println("[Boot] No payment processor configured, using mock payment intents")
	}
	return payments.NewFallbackProcessor(primary, payments.NewMockProcessor(kv))
}

func InitGuard() checkout.Guard {
	if rdb := lib.GetRedisClient(); rdb != nil {
		return checkout.NewRedisGuard(rdb)
	}
	return checkout.NewMemoryGuard()
}

func InitPublisher(ctx context.Context, cfg *config.Config) events.Publisher {
	switch cfg.Events.Backend {
	case "sqs":
		client, err := lib.AWSGetSQSClient(ctx)
		if err != nil {
			log.Printf("[Boot] SQS unavailable, logging purchase events: %s\n", err.Error())
			return events.LogPublisher{}
		}
		return events.NewSQSPublisher(client, cfg.Events.Queue)
	case "kafka":
		if _, err := lib.KafkaCreateTopics(cfg.Events.KafkaBroker, cfg.Events.Queue); err != nil {
			log.Printf("[Boot] Could not create topic %s: %s\n", cfg.Events.Queue, err.Error())
		}
		p, err := lib.KafkaProducer(cfg.Events.KafkaBroker, "TicketPurchaseUpdatesProducer")
		if err != nil {
			return events.LogPublisher{}
		}
		return events.NewKafkaPublisher(p, cfg.Events.Queue)
	}
	return events.LogPublisher{}
}

func Init(ctx context.Context, cfg *config.Config) *Services {
	kv := InitLocalKV()
	st, prober := InitStore(ctx, cfg, kv)
	processor := InitProcessor(cfg, kv)
	return &Services{
		Store:     st,
		Prober:    prober,
		Processor: processor,
		Primary:   processor.Primary(),
		Guard:     InitGuard(),
		Publisher: InitPublisher(ctx, cfg),
	}
}

func InitScheduler(prober *probe.Prober, interval time.Duration) {
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("An error has occurred. Check logs for info")
		return
	}
	if prober != nil {
		j, err := prober.Schedule(sched, interval)
		if err != nil {
			log.Printf("Error scheduling probe: %s\n", err.Error())
		} else {
			log.Printf("Job ID: %s %s\n", j.Name(), j.ID().String())
		}
	}
	sched.Start()
}

func StopScheduler() {
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("Error retrieving Scheduler. Check logs for info")
		return
	}
	if err := sched.Shutdown(); err != nil {
		log.Println("An error has occurred while stopping Scheduler. Check logs for info")
	}
}

// DownloadSDKFileFromS3 fetches the Firebase service account file when it is
// not present on disk.
func DownloadSDKFileFromS3(ctx context.Context, cfg *config.Config, client lib.S3API) error {
	sdkFilePath := cfg.CredentialsPath()
	if _, err := os.Stat(sdkFilePath); !errors.Is(err, os.ErrNotExist) {
		return err
	}
	if cfg.AWS.S3SecretsBucket == "" {
		return nil
	}
	log.Println("File not found. Downloading...")
	tmp := path.Join(path.Dir(sdkFilePath), "."+uuid.NewString())
	file, err := os.Create(tmp)
	if err != nil {
		log.Printf("Could not create file %s: %s\n", tmp, err.Error())
		return err
	}
	err = lib.S3DownloadObject(ctx, client, cfg.AWS.S3SecretsBucket, config.CredentialsFile, file)
	if cerr := file.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmp)
		log.Printf("[S3] Error retrieving object: %s\n", err.Error())
		return err
	}
	if err := os.Rename(tmp, sdkFilePath); err != nil {
		return err
	}
	log.Println("File has been written")
	return nil
}

// LoadSecrets exports AWS Secrets Manager values into the environment before
// the configuration is read.
func LoadSecrets(ctx context.Context) {
	secretID := os.Getenv("AWS_SECRETS_ID")
	if secretID == "" {
		return
	}
	client, err := lib.AWSGetSecretsManagerClient(ctx)
	if err != nil {
		log.Printf("[Secrets] Could not initialize client: %s\n", err.Error())
		return
	}
	exported, err := lib.LoadSecretsIntoEnv(ctx, client, secretID)
	if err != nil {
		log.Printf("[Secrets] Error loading %s: %s\n", secretID, err.Error())
		return
	}
	log.Printf("[Secrets] Loaded %d values from %s\n", len(exported), secretID)
}
