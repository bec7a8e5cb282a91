package openapi

import (
	"fmt"
	"net/mail"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/google/uuid"
)

var (
	formatsOnce sync.Once

	hostnameRe = regexp.MustCompile(`^(?i:[a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?)(\.(?i:[a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?))*$`)
	durationRe = regexp.MustCompile(`^P(\d+Y)?(\d+M)?(\d+W)?(\d+D)?(T(\d+H)?(\d+M)?(\d+(\.\d+)?S)?)?$`)
)

// registerFormats installs validators for the string formats kin-openapi does
// not know. date and date-time are built in.
func registerFormats() {
	formatsOnce.Do(func() {
		openapi3.DefineIPv4Format()
		openapi3.DefineIPv6Format()
		define("email", func(s string) error {
			addr, err := mail.ParseAddress(s)
			if err != nil || addr.Address != s {
				return fmt.Errorf("not an email address")
			}
			return nil
		})
		define("hostname", func(s string) error {
			if len(s) > 253 || !hostnameRe.MatchString(s) {
				return fmt.Errorf("not a hostname")
			}
			return nil
		})
		define("uri", func(s string) error {
			u, err := url.Parse(s)
			if err != nil || !u.IsAbs() {
				return fmt.Errorf("not an absolute URI")
			}
			return nil
		})
		define("uuid", func(s string) error {
			if _, err := uuid.Parse(s); err != nil {
				return fmt.Errorf("not a UUID")
			}
			return nil
		})
		define("time", func(s string) error {
			if _, err := time.Parse("15:04:05Z07:00", s); err != nil {
				return fmt.Errorf("not an RFC 3339 time")
			}
			return nil
		})
		define("duration", func(s string) error {
			if s == "P" || strings.HasSuffix(s, "T") || !durationRe.MatchString(s) {
				return fmt.Errorf("not an ISO 8601 duration")
			}
			return nil
		})
	})
}

func define(name string, fn func(string) error) {
	openapi3.DefineStringFormatValidator(name, openapi3.NewCallbackValidator(fn))
}
