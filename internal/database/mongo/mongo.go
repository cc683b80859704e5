package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"sankhyacrm/entity"
	"sankhyacrm/internal/config"
	"sankhyacrm/internal/lib/sl"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	auditCollection = "record_audit"
)

type MongoDB struct {
	ctx           context.Context
	clientOptions *options.ClientOptions
	database      string
	expiredDays   int
	log           *slog.Logger
}

func NewMongoClient(conf *config.Config, logger *slog.Logger) (*MongoDB, error) {
	if !conf.Mongo.Enabled {
		return nil, nil
	}
	connectionUri := fmt.Sprintf("mongodb://%s:%s", conf.Mongo.Host, conf.Mongo.Port)
	clientOptions := options.Client().ApplyURI(connectionUri)
	if conf.Mongo.User != "" {
		clientOptions.SetAuth(options.Credential{
			Username:   conf.Mongo.User,
			Password:   conf.Mongo.Password,
			AuthSource: conf.Mongo.Database,
		})
	}
	client := &MongoDB{
		ctx:           context.Background(),
		clientOptions: clientOptions,
		database:      conf.Mongo.Database,
		expiredDays:   conf.Mongo.ExpiredDays,
		log:           logger.With(sl.Module("mongodb")),
	}
	return client, nil
}

func (m *MongoDB) connect() (*mongo.Client, error) {
	connection, err := mongo.Connect(m.ctx, m.clientOptions)
	if err != nil {
		return nil, fmt.Errorf("mongodb connect error: %w", err)
	}
	return connection, nil
}

func (m *MongoDB) disconnect(connection *mongo.Client) {
	_ = connection.Disconnect(m.ctx)
}

// SaveRecordVersion appends an outbound save payload to the audit trail
// of one remote record. The first payload for an entity/key pair creates
// the document; later ones append sequentially numbered versions.
func (m *MongoDB) SaveRecordVersion(entityName, recordKey, payload string) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(auditCollection)

	filter := bson.M{"entity_name": entityName, "record_key": recordKey}
	var existing entity.RecordAudit
	err = collection.FindOne(m.ctx, filter).Decode(&existing)

	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			version := entity.AuditVersion{ID: "0", Payload: payload}
			doc := entity.RecordAudit{
				CreationDate: time.Now(),
				EntityName:   entityName,
				RecordKey:    recordKey,
				Versions:     []entity.AuditVersion{version},
			}
			_, err = collection.InsertOne(m.ctx, doc)
			if err != nil {
				return fmt.Errorf("mongodb insert error: %w", err)
			}
			m.log.Debug("created audit record",
				slog.String("entity", entityName), slog.String("record_key", recordKey))
			return nil
		}
		return fmt.Errorf("mongodb find error: %w", err)
	}

	nextID := fmt.Sprintf("%d", len(existing.Versions))
	version := entity.AuditVersion{ID: nextID, Payload: payload}
	update := bson.M{
		"$push": bson.M{"versions": version},
	}
	_, err = collection.UpdateOne(m.ctx, filter, update)
	if err != nil {
		return fmt.Errorf("mongodb update error: %w", err)
	}

	m.log.Debug("appended audit version",
		slog.String("entity", entityName),
		slog.String("record_key", recordKey),
		slog.String("version_id", nextID))
	return nil
}

// DeleteExpired removes audit documents older than expiredDays.
// Returns the number of deleted documents.
func (m *MongoDB) DeleteExpired() (int64, error) {
	if m.expiredDays <= 0 {
		return 0, nil
	}

	connection, err := m.connect()
	if err != nil {
		return 0, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(auditCollection)

	cutoffDate := time.Now().AddDate(0, 0, -m.expiredDays)
	filter := bson.M{"creation_date": bson.M{"$lt": cutoffDate}}

	result, err := collection.DeleteMany(m.ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("mongodb delete error: %w", err)
	}

	if result.DeletedCount > 0 {
		m.log.Info("deleted expired audit records",
			slog.Int64("deleted_count", result.DeletedCount),
			slog.Int("expired_days", m.expiredDays))
	}

	return result.DeletedCount, nil
}
