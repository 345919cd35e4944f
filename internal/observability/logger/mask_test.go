package logger

import (
	"net/http"
	"testing"
)

func TestMaskAuthorizationBearer(t *testing.T) {
	got := MaskAuthorization("Bearer abcdef123456")
	if got != "Bearer ****3456" {
		t.Fatalf("expected masked bearer, got %q", got)
	}
}

func TestMaskAuthorizationShortValue(t *testing.T) {
	if got := MaskAuthorization("abcd"); got != "****" {
		t.Fatalf("expected full mask for short value, got %q", got)
	}
}

func TestMaskCookiePreservesNames(t *testing.T) {
	got := MaskCookie("session=abcdef123456; theme=dark")
	if got != "session=****3456; theme=****" {
		t.Fatalf("unexpected cookie mask: %q", got)
	}
}

func TestMaskHeaders(t *testing.T) {
	headers := http.Header{}
	headers.Set("Authorization", "Bearer abcdef123456")
	headers.Set("Content-Type", "application/json")

	masked := MaskHeaders(headers)
	if masked["Authorization"] != "Bearer ****3456" {
		t.Fatalf("authorization not masked: %q", masked["Authorization"])
	}
	if masked["Content-Type"] != "application/json" {
		t.Fatalf("plain header altered: %q", masked["Content-Type"])
	}
}
