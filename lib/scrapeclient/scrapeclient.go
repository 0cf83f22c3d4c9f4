// Package scrapeclient builds the HTTP client used to talk to the
// rating sites. The sites are ordinary WordPress installs behind
// Cloudflare, so the client carries a browser User-Agent, a cloudflare
// bypass transport, and a shared rate limiter that keeps a polite fixed
// delay (with jitter) between outbound requests.
package scrapeclient

import (
	"time"

	"infosources-backend/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	browser "github.com/EDDYCJY/fake-useragent"
	"github.com/go-resty/resty/v2"
	"github.com/mazen160/go-random"
	"golang.org/x/time/rate"
)

type Options struct {
	// Delay between outbound requests. Zero disables rate limiting.
	Delay time.Duration
	// Timeout for a single request. Defaults to 10 seconds.
	Timeout time.Duration
	// UserAgent pins the User-Agent header; when empty a random
	// browser User-Agent is picked once per client.
	UserAgent string
	// DumpDir, when set, writes a full request/response transcript of
	// every exchange into the directory.
	DumpDir string
	// TracerName names the otel tracer requests are recorded under.
	TracerName string
}

// New builds a resty client according to opts.
func New(opts Options) *resty.Client {
	client := resty.New()

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	client.SetTimeout(timeout)

	ua := opts.UserAgent
	if ua == "" {
		ua = browser.Computer()
	}
	client.SetHeader("User-Agent", ua)

	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	if opts.Delay > 0 {
		limiter := rate.NewLimiter(rate.Every(opts.Delay), 1)
		client.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
			if err := limiter.Wait(req.Context()); err != nil {
				return err
			}
			// jitter so request timing doesn't look mechanical
			ms, err := random.IntRange(0, 250)
			if err == nil {
				time.Sleep(time.Duration(ms) * time.Millisecond)
			}
			return nil
		})
	}

	tracerName := opts.TracerName
	if tracerName == "" {
		tracerName = "infosources.lib.scrapeclient"
	}
	telemetry.InstrumentResty(client, tracerName)

	if opts.DumpDir != "" {
		attachDumper(client, opts.DumpDir)
	}

	return client
}
