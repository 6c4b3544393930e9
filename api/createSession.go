package api

import (
	"net"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/paulmatencio/tbm/datatype"
	"github.com/paulmatencio/tbm/gLog"
	"github.com/spf13/viper"
)

const (
	CONTIMEOUT = 2000  // connection timeout in ms
	KEEPALIVE  = 15000 // keep alive  in ms
	MAXRETRIES = 3
)

// CreateSession opens an S3 session on req.EndPoint. Transport settings come from
// the transport.* keys of the configuration.
func CreateSession(req datatype.CreateSession) (*session.Session, error) {

	var (
		loglevel   = aws.LogOff
		maxRetries = MAXRETRIES
		conTimeout = CONTIMEOUT
		keepAlive  = KEEPALIVE
	)

	if viper.GetInt("loglevel") == 5 {
		loglevel = aws.LogDebug
	}
	if retry := viper.GetInt("transport.retry.number"); retry > 0 {
		maxRetries = retry
	}
	if req.MaxRetries > 0 {
		maxRetries = req.MaxRetries
	}
	if t := viper.GetInt("transport.connectionTimeout"); t > 0 {
		conTimeout = t
	}
	if k := viper.GetInt("transport.keepAlive"); k > 0 {
		keepAlive = k
	}

	Transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   time.Duration(conTimeout) * time.Millisecond,
			KeepAlive: time.Duration(keepAlive) * time.Millisecond,
		}).DialContext,
		TLSHandshakeTimeout:   10 * time.Second,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		MaxConnsPerHost:       100,
		IdleConnTimeout:       90 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	if proxy := viper.GetString("transport.proxy.http"); len(proxy) == 0 {
		gLog.Trace.Println("no http proxy - if needed, add transport.proxy.http: http://proxyUri to the config file")
	} else {
		if proxyHttp, err := url.Parse(proxy); err == nil {
			gLog.Info.Printf("Setting http proxy %s", proxyHttp)
			Transport.Proxy = http.ProxyURL(proxyHttp)
		} else {
			gLog.Warning.Printf("Setting http proxy %s", os.Getenv("http_proxy"))
			Transport.Proxy = http.ProxyFromEnvironment
		}
	}

	region := req.Region
	if region == "" {
		region = "us-east-1"
	}
	return session.NewSession(&aws.Config{
		Region:                         aws.String(region),
		Endpoint:                       aws.String(req.EndPoint),
		Credentials:                    credentials.NewStaticCredentials(req.AccessKey, req.SecretKey, ""),
		DisableRestProtocolURICleaning: aws.Bool(true),
		S3ForcePathStyle:               aws.Bool(true),
		LogLevel:                       aws.LogLevel(loglevel),
		MaxRetries:                     aws.Int(maxRetries),
		HTTPClient:                     &http.Client{Transport: Transport},
	})
}
