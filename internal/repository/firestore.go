package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"ecogo/internal/logger"
	"ecogo/internal/models"
)

const usersCollection = "users"

// FirestoreConfig selects the Firestore project and database. Empty values
// fall back to detection from the environment and the default database.
type FirestoreConfig struct {
	ProjectID string `mapstructure:"project_id"`
	Database  string `mapstructure:"database"`
}

// UserDataFirestore keeps each user's snapshot as a JSON string in the
// users/{userID} document.
type UserDataFirestore struct {
	client *firestore.Client
	log    *logger.Logger
}

var _ UserDataRepo = (*UserDataFirestore)(nil)

// NewUserDataFirestore opens a Firestore client. FIRESTORE_EMULATOR_HOST is
// honoured by the client library.
func NewUserDataFirestore(ctx context.Context, cfg FirestoreConfig, log *logger.Logger) (*UserDataFirestore, error) {
	projectID := cfg.ProjectID
	if projectID == "" {
		projectID = firestore.DetectProjectID
	}
	database := cfg.Database
	if database == "" {
		database = firestore.DefaultDatabaseID
	}
	client, err := firestore.NewClientWithDatabase(ctx, projectID, database)
	if err != nil {
		return nil, fmt.Errorf("create firestore client (project=%s, database=%s): %w", projectID, database, err)
	}
	return &UserDataFirestore{client: client, log: logger.OrNop(log)}, nil
}

// Close closes the Firestore client connection.
func (f *UserDataFirestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}

func (f *UserDataFirestore) doc(userID int) *firestore.DocumentRef {
	return f.client.Collection(usersCollection).Doc(strconv.Itoa(userID))
}

// Load fetches the user's snapshot. A missing document yields zero-value data.
func (f *UserDataFirestore) Load(ctx context.Context, userID int) (models.UserData, error) {
	snap, err := f.doc(userID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return models.UserData{}, nil
		}
		return models.UserData{}, fmt.Errorf("fetch user data doc %d: %w", userID, err)
	}

	val, err := snap.DataAt("json")
	if err != nil {
		f.log.Warnw("user_data_doc_missing_json", "user_id", userID)
		return models.UserData{}, fmt.Errorf("user data doc %d missing 'json' field: %w", userID, err)
	}
	jsonStr, ok := val.(string)
	if !ok {
		f.log.Warnw("user_data_doc_json_not_string", "user_id", userID)
		return models.UserData{}, fmt.Errorf("user data doc %d 'json' field is not a string", userID)
	}

	var d models.UserData
	if err := json.Unmarshal([]byte(jsonStr), &d); err != nil {
		f.log.Warnw("user_data_doc_unmarshal_failed", "user_id", userID, "err", err)
		return models.UserData{}, fmt.Errorf("unmarshal user data %d: %w", userID, err)
	}
	return d, nil
}

// Save replaces the user's snapshot document.
func (f *UserDataFirestore) Save(ctx context.Context, userID int, data models.UserData) error {
	if data.UpdatedAt.IsZero() {
		data.UpdatedAt = time.Now().UTC()
	}
	b, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal user data %d: %w", userID, err)
	}
	_, err = f.doc(userID).Set(ctx, map[string]interface{}{
		"json":       string(b),
		"updated_at": data.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("save user data %d: %w", userID, err)
	}
	return nil
}

// UserIDs lists every user document. Non-numeric document IDs are skipped.
func (f *UserDataFirestore) UserIDs(ctx context.Context) ([]int, error) {
	iter := f.client.Collection(usersCollection).Documents(ctx)
	defer iter.Stop()

	var ids []int
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("iterate user docs: %w", err)
		}
		id, err := strconv.Atoi(snap.Ref.ID)
		if err != nil {
			f.log.Warnw("user_doc_id_not_numeric", "doc_id", snap.Ref.ID)
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}
