package middleware

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"log/slog"
	"mime"
	"net/http"
	"sort"
	"strings"
)

const TwilioSignatureHeader = "X-Twilio-Signature"

// ComputeTwilioSignature signs fullURL followed by every form key and value, keys sorted.
func ComputeTwilioSignature(authToken, fullURL string, params map[string][]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(fullURL)
	for _, k := range keys {
		for _, v := range params[k] {
			b.WriteString(k)
			b.WriteString(v)
		}
	}

	mac := hmac.New(sha1.New, []byte(authToken))
	mac.Write([]byte(b.String()))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// TwilioSignatureMiddleware rejects provider callbacks whose signature does not match.
// Only form-encoded bodies are accepted since the signature covers no other body type.
// publicBaseURL, when set, replaces the scheme and host seen by this process, which
// differ from the signed URL behind a proxy.
func TwilioSignatureMiddleware(authToken, publicBaseURL string, logger *slog.Logger) func(next http.Handler) http.Handler {
	publicBaseURL = strings.TrimRight(publicBaseURL, "/")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
			if mediaType != "application/x-www-form-urlencoded" {
				logger.WarnContext(r.Context(), "Rejected signed callback with unsigned body type", "content_type", r.Header.Get("Content-Type"))
				http.Error(w, "Unsupported content type", http.StatusUnsupportedMediaType)
				return
			}
			if err := r.ParseForm(); err != nil {
				http.Error(w, "Invalid form body", http.StatusBadRequest)
				return
			}

			base := publicBaseURL
			if base == "" {
				scheme := "http"
				if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
					scheme = "https"
				}
				base = scheme + "://" + r.Host
			}
			fullURL := base + r.URL.RequestURI()

			expected := ComputeTwilioSignature(authToken, fullURL, r.PostForm)
			got := r.Header.Get(TwilioSignatureHeader)
			if got == "" || !hmac.Equal([]byte(expected), []byte(got)) {
				logger.WarnContext(r.Context(), "Rejected callback with bad signature", "url", fullURL)
				http.Error(w, "Invalid signature", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
