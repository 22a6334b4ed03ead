package catalog

import (
	"context"
	"errors"
	"testing"
)

type fakeObjects struct {
	objects map[string][]byte
	asked   []string
}

func (f *fakeObjects) ReadObject(_ context.Context, _ string, object string) ([]byte, error) {
	f.asked = append(f.asked, object)
	if raw, ok := f.objects[object]; ok {
		return raw, nil
	}
	return nil, errors.New("object not found")
}

func (f *fakeObjects) ObjectName(name string) string {
	return "storefront/" + name
}

func TestGCSSourceAppliesPrefix(t *testing.T) {
	reader := &fakeObjects{objects: map[string][]byte{"storefront/data/a.json": []byte("{}")}}
	src := NewGCSSource(reader)

	data, err := src.Fetch(context.Background(), "data/a.json")
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if string(data) != "{}" {
		t.Fatalf("unexpected data %q", data)
	}
	if len(reader.asked) != 1 || reader.asked[0] != "storefront/data/a.json" {
		t.Fatalf("unexpected objects requested: %v", reader.asked)
	}
}

func TestFileSourceStaysInsideDir(t *testing.T) {
	src := NewFileSource("testdata")
	if _, err := src.Fetch(context.Background(), "../loader.go"); err == nil {
		t.Fatal("expected path outside the directory to be unreadable")
	}
}

func TestFileSourceHonorsCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewFileSource("testdata").Fetch(ctx, "data/config_general.json"); err == nil {
		t.Fatal("expected canceled context to fail")
	}
}
