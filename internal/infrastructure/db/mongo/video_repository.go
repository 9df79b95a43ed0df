package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/videocatalog/video-metadata-service/internal/core/domain"
	"github.com/videocatalog/video-metadata-service/internal/core/ports"
)

const collectionVideos = "videos"

var _ ports.VideoRepository = (*VideoRepository)(nil)

type VideoRepository struct {
	col *mongo.Collection
}

func NewVideoRepository(db *mongo.Database) *VideoRepository {
	return &VideoRepository{col: db.Collection(collectionVideos)}
}

type mongoVideo struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	Title           string             `bson:"title"`
	Description     string             `bson:"description,omitempty"`
	ExternalID      string             `bson:"external_id"`
	Source          string             `bson:"source"`
	ThumbnailURL    string             `bson:"thumbnail_url,omitempty"`
	VideoURL        string             `bson:"video_url,omitempty"`
	DurationSeconds *int               `bson:"duration_seconds,omitempty"`
	UploadDate      *time.Time         `bson:"upload_date,omitempty"`
	ViewCount       int64              `bson:"view_count"`
	LikeCount       int64              `bson:"like_count"`
	ChannelName     string             `bson:"channel_name,omitempty"`
	ChannelID       string             `bson:"channel_id,omitempty"`
	Tags            string             `bson:"tags,omitempty"`
	CreatedAt       time.Time          `bson:"created_at"`
	UpdatedAt       time.Time          `bson:"updated_at"`
}

func toMongoVideo(v *domain.Video) mongoVideo {
	return mongoVideo{
		Title:           v.Title,
		Description:     v.Description,
		ExternalID:      v.ExternalID,
		Source:          string(v.Source),
		ThumbnailURL:    v.ThumbnailURL,
		VideoURL:        v.VideoURL,
		DurationSeconds: v.DurationSeconds,
		UploadDate:      v.UploadDate,
		ViewCount:       v.ViewCount,
		LikeCount:       v.LikeCount,
		ChannelName:     v.ChannelName,
		ChannelID:       v.ChannelID,
		Tags:            v.Tags,
		CreatedAt:       v.CreatedAt.UTC(),
		UpdatedAt:       v.UpdatedAt.UTC(),
	}
}

func (mv *mongoVideo) toDomain() *domain.Video {
	var upload *time.Time
	if mv.UploadDate != nil {
		t := mv.UploadDate.UTC()
		upload = &t
	}
	return &domain.Video{
		ID:              mv.ID.Hex(),
		Title:           mv.Title,
		Description:     mv.Description,
		ExternalID:      mv.ExternalID,
		Source:          domain.Source(mv.Source),
		ThumbnailURL:    mv.ThumbnailURL,
		VideoURL:        mv.VideoURL,
		DurationSeconds: mv.DurationSeconds,
		UploadDate:      upload,
		ViewCount:       mv.ViewCount,
		LikeCount:       mv.LikeCount,
		ChannelName:     mv.ChannelName,
		ChannelID:       mv.ChannelID,
		Tags:            mv.Tags,
		CreatedAt:       mv.CreatedAt.UTC(),
		UpdatedAt:       mv.UpdatedAt.UTC(),
	}
}

// Create inserts a new video document.
func (r *VideoRepository) Create(ctx context.Context, v *domain.Video) (*domain.Video, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toMongoVideo(v)
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateVideo
		}
		return nil, fmt.Errorf("insert video: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		doc.ID = oid
	}
	return doc.toDomain(), nil
}

// Update replaces every writable field of an existing video.
func (r *VideoRepository) Update(ctx context.Context, v *domain.Video) (*domain.Video, error) {
	oid, err := primitive.ObjectIDFromHex(v.ID)
	if err != nil {
		return nil, domain.ErrVideoNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toMongoVideo(v)
	doc.ID = oid
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": oid}, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateVideo
		}
		return nil, fmt.Errorf("update video: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrVideoNotFound
	}
	return doc.toDomain(), nil
}

func (r *VideoRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrVideoNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete video: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrVideoNotFound
	}
	return nil
}

// FindByID returns domain.ErrVideoNotFound for unknown or malformed ids.
func (r *VideoRepository) FindByID(ctx context.Context, id string) (*domain.Video, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrVideoNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *VideoRepository) FindByExternalID(ctx context.Context, externalID string, source domain.Source) (*domain.Video, error) {
	return r.findOne(ctx, bson.M{"external_id": externalID, "source": string(source)})
}

func (r *VideoRepository) findOne(ctx context.Context, filter bson.M) (*domain.Video, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mv mongoVideo
	if err := r.col.FindOne(ctx, filter).Decode(&mv); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrVideoNotFound
		}
		return nil, fmt.Errorf("find video: %w", err)
	}
	return mv.toDomain(), nil
}

// List returns one page of videos, newest first, plus the total match count.
func (r *VideoRepository) List(ctx context.Context, f ports.VideoFilter) ([]*domain.Video, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := buildVideoFilter(f)

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count videos: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64((f.Page - 1) * f.Limit)).
		SetLimit(int64(f.Limit))

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find videos: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoVideo
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("decode videos: %w", err)
	}

	out := make([]*domain.Video, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, total, nil
}

func buildVideoFilter(f ports.VideoFilter) bson.M {
	filter := bson.M{}
	if f.Source != "" {
		filter["source"] = string(f.Source)
	}

	duration := bson.M{}
	if f.MinDuration != nil {
		duration["$gte"] = *f.MinDuration
	}
	if f.MaxDuration != nil {
		duration["$lte"] = *f.MaxDuration
	}
	if len(duration) > 0 {
		filter["duration_seconds"] = duration
	}

	if !f.UploadedAt.IsZero() {
		filter["upload_date"] = bson.M{"$gte": f.UploadedAt.UTC()}
	}
	if f.TitleSearch != "" {
		filter["title"] = primitive.Regex{Pattern: regexp.QuoteMeta(f.TitleSearch), Options: "i"}
	}
	return filter
}

// StatsBySource groups the catalog by source. Videos without a duration
// count towards the total but not the average.
func (r *VideoRepository) StatsBySource(ctx context.Context) ([]domain.VideoStats, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$source"},
			{Key: "total_videos", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "average_duration", Value: bson.D{{Key: "$avg", Value: "$duration_seconds"}}},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "total_videos", Value: 1},
			{Key: "average_duration", Value: bson.D{{Key: "$ifNull", Value: bson.A{"$average_duration", 0}}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate video stats: %w", err)
	}
	defer cur.Close(ctx)

	stats := []domain.VideoStats{}
	if err := cur.All(ctx, &stats); err != nil {
		return nil, fmt.Errorf("decode video stats: %w", err)
	}
	return stats, nil
}

// EnsureIndexes creates the (external_id, source) uniqueness constraint and
// the indexes backing the list filters.
func (r *VideoRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "external_id", Value: 1}, {Key: "source", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "source", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "upload_date", Value: -1}}},
	}

	if _, err := r.col.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("videos indexes: %w", err)
	}
	return nil
}
