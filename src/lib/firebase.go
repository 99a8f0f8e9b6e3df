package lib

import (
	"context"
	"log"
	"sync"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"github.com/Ryan-Shaik/TechWave/src/config"
	"google.golang.org/api/option"
)

var (
	firebaseMu     sync.Mutex
	innerApp       *firebase.App
	innerFirestore *firestore.Client
)

func getOpts() option.ClientOption {
	return option.WithCredentialsFile(config.Get().CredentialsPath())
}

func GetFirebaseApp(ctx context.Context) (*firebase.App, error) {
	firebaseMu.Lock()
	defer firebaseMu.Unlock()
	return getFirebaseApp(ctx)
}

func getFirebaseApp(ctx context.Context) (*firebase.App, error) {
	if innerApp != nil {
		return innerApp, nil
	}
	var fc *firebase.Config
	if id := config.Get().Firebase.ProjectID; id != "" {
		fc = &firebase.Config{ProjectID: id}
	}
	app, err := firebase.NewApp(ctx, fc, getOpts())
	if err != nil {
		log.Printf("error initializing app: %s\n", err.Error())
		return nil, err
	}
	innerApp = app
	return app, nil
}

func GetFirestore(ctx context.Context) (*firestore.Client, error) {
	firebaseMu.Lock()
	defer firebaseMu.Unlock()
	if innerFirestore != nil {
		return innerFirestore, nil
	}
	app, err := getFirebaseApp(ctx)
	if err != nil {
		return nil, err
	}
	fs, err := app.Firestore(ctx)
	if err != nil {
		log.Printf("error initializing Firestore: %s\n", err.Error())
		return nil, err
	}
	innerFirestore = fs
	return fs, nil
}

func NewFirebaseApp(app *firebase.App) {
	firebaseMu.Lock()
	defer firebaseMu.Unlock()
	innerApp = app
	innerFirestore = nil
}
