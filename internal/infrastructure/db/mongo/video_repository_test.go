package mongo

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/videocatalog/video-metadata-service/internal/core/domain"
	"github.com/videocatalog/video-metadata-service/internal/core/ports"
)

func TestBuildVideoFilter_Empty(t *testing.T) {
	if f := buildVideoFilter(ports.VideoFilter{Page: 1, Limit: 20}); len(f) != 0 {
		t.Fatalf("expected empty filter, got %v", f)
	}
}

func TestBuildVideoFilter_AllFields(t *testing.T) {
	lo, hi := 60, 600
	since := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	f := buildVideoFilter(ports.VideoFilter{
		Source:      domain.SourceVimeo,
		MinDuration: &lo,
		MaxDuration: &hi,
		UploadedAt:  since,
		TitleSearch: "c++ (intro)",
	})

	if f["source"] != "vimeo" {
		t.Errorf("source: got %v", f["source"])
	}
	dur, ok := f["duration_seconds"].(bson.M)
	if !ok || dur["$gte"] != 60 || dur["$lte"] != 600 {
		t.Errorf("duration: got %v", f["duration_seconds"])
	}
	up, ok := f["upload_date"].(bson.M)
	if !ok || !up["$gte"].(time.Time).Equal(since) {
		t.Errorf("upload_date: got %v", f["upload_date"])
	}
	re, ok := f["title"].(primitive.Regex)
	if !ok {
		t.Fatalf("title: expected regex, got %T", f["title"])
	}
	if re.Pattern != `c\+\+ \(intro\)` || re.Options != "i" {
		t.Errorf("title regex: got %+v", re)
	}
}

func TestBuildVideoFilter_OnlyMinDuration(t *testing.T) {
	floor := 30
	f := buildVideoFilter(ports.VideoFilter{MinDuration: &floor})

	dur := f["duration_seconds"].(bson.M)
	if _, has := dur["$lte"]; has {
		t.Errorf("unexpected upper bound: %v", dur)
	}
}
