package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/paulmatencio/tbm/api"
	"github.com/paulmatencio/tbm/datatype"
	"github.com/paulmatencio/tbm/gLog"
	"github.com/paulmatencio/tbm/tbm/db"
	"github.com/paulmatencio/tbm/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	bucket        string
	async         int
	reload, probe bool
	timeout       time.Duration
	toS3Cmd       = &cobra.Command{
		Use:   "toS3",
		Short: "Command to extract the files of tape archives then upload them to S3",
		Long: `Command to recover every file of the matching tape archives and upload each one to
<bucket>/<archive>/<n>.<data set id> with its data set id, size and xxhash as user metadata`,
		Run: func(cmd *cobra.Command, args []string) {
			exit(toS3Func())
		},
	}
)

func init() {
	RootCmd.AddCommand(toS3Cmd)
	toS3Cmd.Flags().StringVarP(&ifile, "ifile", "i", "", "tape archive images: comma separated list of files or ** patterns")
	toS3Cmd.Flags().StringVarP(&bucket, "bucket", "b", "", "name of the target bucket")
	toS3Cmd.Flags().BoolVarP(&text, "text", "t", false, "decode the files as display code text")
	toS3Cmd.Flags().StringVarP(&DB, "DB", "D", "", "directory of the badger status database")
	toS3Cmd.Flags().IntVarP(&async, "async", "a", utils.DefaultAsync, "number of archives converted concurrently")
	toS3Cmd.Flags().BoolVarP(&reload, "reload", "r", false, "upload again the files already recorded with the same checksum")
	toS3Cmd.Flags().BoolVarP(&probe, "probe", "", false, "check every endpoint before uploading")
	toS3Cmd.Flags().DurationVarP(&timeout, "timeout", "", time.Minute, "timeout of one upload")
}

func toS3Func() error {
	if len(ifile) == 0 {
		gLog.Info.Printf("%s", missingInputFile)
		return nil
	}
	if len(bucket) == 0 {
		gLog.Info.Printf("%s", missingBucket)
		return nil
	}
	files, err := utils.Glob(ifile)
	if err != nil {
		return err
	}
	up, err := newUploader(viper.GetViper().GetString("s3.region"), bucket)
	if err != nil {
		return err
	}
	defer up.pool.Close()
	if probe {
		if err := up.probe(); err != nil {
			return err
		}
	}
	if err := up.statBucket(); err != nil {
		return err
	}
	store, err := openStore(DB, utils.GetDBDirectory(viper.GetViper()))
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}
	up.store = store
	c := &converter{text: text, store: store, write: up.write}

	if async <= 0 {
		async = 1
	}
	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		first error
		total int
		sem   = make(chan struct{}, async)
		start = time.Now()
	)
	for _, file := range files {
		wg.Add(1)
		sem <- struct{}{}
		go func(file string) {
			defer wg.Done()
			defer func() { <-sem }()
			n, err := c.convert(file)
			mu.Lock()
			defer mu.Unlock()
			total += n
			if err != nil {
				gLog.Error.Printf("Archive %s: %s", file, describe(err))
				if first == nil {
					first = err
				}
			}
		}(file)
	}
	wg.Wait()
	gLog.Info.Printf("%d archives - %d files uploaded to %s - elapsed time %s", len(files), total, bucket, time.Since(start))
	return first
}

// uploader sends recovered files to one bucket through a pool of endpoints.
type uploader struct {
	bucket    string
	pool      *utils.EndpointPool
	services  map[string]*s3.S3
	store     db.DB
	retries   int
	wait      time.Duration
	accessKey string
	secretKey string
}

func newUploader(region, bucket string) (*uploader, error) {
	v := viper.GetViper()
	urls := utils.GetS3Endpoints(v)
	pool, err := utils.NewEndpointPool(urls)
	if err != nil {
		return nil, err
	}
	up := &uploader{
		bucket:    bucket,
		pool:      pool,
		services:  make(map[string]*s3.S3, len(urls)),
		retries:   utils.GetRetryNumber(v),
		wait:      utils.GetWaitTime(v),
		accessKey: v.GetString("credential.access_key_id"),
		secretKey: v.GetString("credential.secret_access_key"),
	}
	for _, url := range urls {
		sess, err := api.CreateSession(datatype.CreateSession{
			Region:    region,
			EndPoint:  url,
			AccessKey: up.accessKey,
			SecretKey: up.secretKey,
		})
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("session %s: %w", url, err)
		}
		up.services[url] = s3.New(sess)
	}
	if up.retries <= 0 {
		up.retries = len(urls)
	}
	return up, nil
}

// probe checks every endpoint and fails when none of them holds the bucket.
func (up *uploader) probe() error {
	ok := 0
	for _, url := range up.pool.Hosts() {
		err := api.ProbeEndpoint(datatype.ProbeRequest{
			EndPoint:  url,
			Bucket:    up.bucket,
			AccessKey: up.accessKey,
			SecretKey: up.secretKey,
		})
		if err != nil {
			gLog.Warning.Printf("Endpoint %s: %v", url, err)
			continue
		}
		ok++
	}
	if ok == 0 {
		return fmt.Errorf("bucket %s is not reachable on any endpoint", up.bucket)
	}
	return nil
}

// statBucket checks that the bucket exists before any archive is converted.
func (up *uploader) statBucket() error {
	return up.pool.Do(func(url string) error {
		_, err := api.StatBucket(datatype.StatBucketRequest{Service: up.services[url], Bucket: up.bucket})
		if err != nil {
			utils.ProcS3Error(err)
			return fmt.Errorf("bucket %s on %s: %w", up.bucket, url, err)
		}
		return nil
	})
}

// uploaded reports whether r is already stored at dest with the same checksum,
// either in the status database or in the user metadata of the object.
func (up *uploader) uploaded(r *recovered, dest string) bool {
	if up.store != nil {
		prev, err := db.GetFile(up.store, r.Status.Archive, r.Status.Index)
		if err == nil && prev != nil {
			return prev.XXHash == r.Status.XXHash && prev.Destination == dest
		}
	}
	var head *s3.HeadObjectOutput
	err := up.pool.Do(func(url string) error {
		var err error
		head, err = api.StatObject(datatype.StatObjRequest{Service: up.services[url], Bucket: up.bucket, Key: r.Key()})
		return err
	})
	if err != nil {
		return false
	}
	var prev db.FileStatus
	if err := utils.GetUserMeta(head.Metadata, &prev); err != nil {
		gLog.Warning.Printf("Invalid user metadata of %s: %v", dest, err)
		return false
	}
	return prev.XXHash == r.Status.XXHash
}

func (up *uploader) write(r *recovered) (string, error) {
	dest := up.bucket + "/" + r.Key()
	if !reload && up.uploaded(r, dest) {
		gLog.Trace.Printf("%s already uploaded", dest)
		return dest, nil
	}
	usermd, err := json.Marshal(r.Status)
	if err != nil {
		return "", err
	}
	meta := utils.BuildUserMeta(usermd)
	for k, v := range utils.BuildUsermd(map[string]string{
		"Datasetid": r.Status.DataSetID,
		"Xxhash":    r.Status.XXHash,
	}) {
		meta[k] = v
	}
	req := datatype.PutObjRequest{
		Bucket:      up.bucket,
		Key:         r.Key(),
		Buffer:      r.Data,
		Metadata:    meta,
		ContentType: "application/octet-stream",
	}
	if r.Status.Text {
		req.ContentType = "text/plain"
	}

	for attempt := 1; ; attempt++ {
		err = up.pool.Do(func(url string) error {
			req.Service = up.services[url]
			_, err := api.PutObjectWithContext(context.Background(), timeout, req)
			return err
		})
		if err == nil {
			utils.PrintMetadata(meta)
			return dest, nil
		}
		utils.ProcS3Error(err)
		if !utils.Retryable(err) || attempt >= up.retries {
			return "", fmt.Errorf("uploading %s after %d attempts: %w", dest, attempt, err)
		}
		time.Sleep(up.wait)
	}
}
