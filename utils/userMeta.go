package utils

import (
	"encoding/base64"
	"encoding/json"

	"github.com/paulmatencio/tbm/gLog"
)

// BuildUserMeta encodes meta as the base64 Usermd entry of the S3 user metadata.
func BuildUserMeta(meta []byte) map[string]*string {
	metad := make(map[string]*string)
	if len(meta) > 0 {
		m := base64.StdEncoding.EncodeToString(meta)
		metad["Usermd"] = &m
	}
	return metad
}

// GetUserMeta decodes the Usermd entry into v.
func GetUserMeta(metad map[string]*string, v interface{}) error {
	m, ok := metad["Usermd"]
	if !ok || m == nil {
		return nil
	}
	u, err := base64.StdEncoding.DecodeString(*m)
	if err != nil {
		return err
	}
	return json.Unmarshal(u, v)
}

func BuildUsermd(usermd map[string]string) map[string]*string {
	metad := make(map[string]*string)
	for k, v := range usermd {
		v := v
		metad[k] = &v
	}
	return metad
}

func PrintMetadata(metad map[string]*string) {
	for k, v := range metad {
		gLog.Trace.Printf("%s: %s", k, *v)
	}
}
