package utils

import (
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/spf13/viper"
)

func TestEndpointPool(t *testing.T) {
	if _, err := NewEndpointPool(nil); !errors.Is(err, ErrNoEndpoint) {
		t.Fatalf("expected ErrNoEndpoint, got %v", err)
	}
	p, err := NewEndpointPool([]string{"http://s3-1:9000", "http://s3-2:9000"})
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()
	if len(p.Hosts()) != 2 {
		t.Errorf("hosts %q", p.Hosts())
	}
	var used string
	if err := p.Do(func(url string) error { used = url; return nil }); err != nil || used == "" {
		t.Errorf("used %q err %v", used, err)
	}
	boom := errors.New("boom")
	if err := p.Do(func(string) error { return boom }); err != boom {
		t.Errorf("expected the callback error, got %v", err)
	}
}

func TestRetryable(t *testing.T) {
	if Retryable(nil) {
		t.Error("nil is not retryable")
	}
	if Retryable(awserr.New("NoSuchBucket", "gone", nil)) {
		t.Error("a missing bucket is not retryable")
	}
	if !Retryable(awserr.New("SlowDown", "later", nil)) || !Retryable(errors.New("reset")) {
		t.Error("transient errors are retryable")
	}
}

func TestGetters(t *testing.T) {
	v := viper.New()
	if GetLogOutput(v) != "terminal" || GetLineLength(v) != DefaultLineLength || GetStartWord(v) != 0 {
		t.Error("defaults")
	}
	v.Set("s3.url", "http://a:9000, ,http://b:9000")
	v.Set("tbm.start_word", 2048)
	v.Set("logging.log_level", 3)
	if urls := GetS3Endpoints(v); len(urls) != 2 || urls[1] != "http://b:9000" {
		t.Errorf("endpoints %q", urls)
	}
	if GetStartWord(v) != 2048 {
		t.Errorf("start word %d", GetStartWord(v))
	}
	if SetLogLevel(v, 0) != 3 || SetLogLevel(v, 2) != 2 {
		t.Error("log level")
	}
	v.Set("verbose", true)
	if SetLogLevel(v, 1) != 4 {
		t.Error("verbose forces trace")
	}
}
