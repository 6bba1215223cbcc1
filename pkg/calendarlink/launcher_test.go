package calendarlink

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeOpener struct {
	opened []string
	fail   map[string]error
}

func (f *fakeOpener) Open(uri string) error {
	if err := f.fail[uri]; err != nil {
		return err
	}
	f.opened = append(f.opened, uri)
	return nil
}

func TestFallbackSkippedWhenAppTakesOver(t *testing.T) {
	opener := &fakeOpener{}
	hidden := make(chan struct{}, 1)
	hidden <- struct{}{}

	usedWeb, err := openWithAppFallback(context.Background(), opener, "app://x", "https://x", hidden, time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if usedWeb {
		t.Error("web fallback used although the app took over")
	}
	if len(opener.opened) != 1 || opener.opened[0] != "app://x" {
		t.Errorf("opened %v, want only the app url", opener.opened)
	}
}

func TestFallbackOpensWebOnTimeout(t *testing.T) {
	opener := &fakeOpener{}
	hidden := make(chan struct{})

	usedWeb, err := openWithAppFallback(context.Background(), opener, "app://x", "https://x", hidden, time.Millisecond)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !usedWeb {
		t.Error("timer expired but web fallback not reported")
	}
	if len(opener.opened) != 2 || opener.opened[1] != "https://x" {
		t.Errorf("opened %v, want app then web", opener.opened)
	}
}

func TestFallbackImmediateOnOpenError(t *testing.T) {
	opener := &fakeOpener{fail: map[string]error{"app://x": errors.New("scheme refused")}}

	usedWeb, err := openWithAppFallback(context.Background(), opener, "app://x", "https://x", nil, time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !usedWeb {
		t.Error("refused scheme should fall back immediately")
	}
	if len(opener.opened) != 1 || opener.opened[0] != "https://x" {
		t.Errorf("opened %v, want only the web url", opener.opened)
	}
}

func TestFallbackHonorsContext(t *testing.T) {
	opener := &fakeOpener{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := openWithAppFallback(ctx, opener, "app://x", "https://x", nil, time.Second)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("want context.Canceled, got %v", err)
	}
}
