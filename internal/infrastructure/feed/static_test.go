package feed

import (
	"context"
	"errors"
	"testing"

	"github.com/videocatalog/video-metadata-service/internal/core/domain"
)

func TestStaticFeed_EverySourceHasStableIDs(t *testing.T) {
	f := NewStaticFeed()

	for _, src := range domain.Sources {
		first, err := f.Fetch(context.Background(), src)
		if err != nil {
			t.Fatalf("%s: %v", src, err)
		}
		if len(first) == 0 {
			t.Fatalf("%s: empty catalog", src)
		}
		second, _ := f.Fetch(context.Background(), src)
		for i := range first {
			if first[i].Source != src {
				t.Errorf("%s: item %d has source %q", src, i, first[i].Source)
			}
			if first[i].ExternalID == "" || first[i].ExternalID != second[i].ExternalID {
				t.Errorf("%s: external id not stable: %q vs %q", src, first[i].ExternalID, second[i].ExternalID)
			}
		}
	}
}

func TestStaticFeed_ReturnsCopy(t *testing.T) {
	f := NewStaticFeed()

	items, _ := f.Fetch(context.Background(), domain.SourceVimeo)
	items[0].Title = "mutated"

	again, _ := f.Fetch(context.Background(), domain.SourceVimeo)
	if again[0].Title == "mutated" {
		t.Fatal("caller mutation leaked into the catalog")
	}
}

func TestStaticFeed_UnknownSource(t *testing.T) {
	if _, err := NewStaticFeed().Fetch(context.Background(), "myspace"); !errors.Is(err, domain.ErrInvalidSource) {
		t.Fatalf("expected ErrInvalidSource, got %v", err)
	}
}

func TestStaticFeed_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewStaticFeed().Fetch(ctx, domain.SourceYouTube); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
