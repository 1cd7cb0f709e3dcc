package pysubscript

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/boltdb/bolt"
	"github.com/pkg/errors"
	"github.com/vilterp/pysubscript/pkg/diag"
	"github.com/vilterp/pysubscript/pkg/pyversion"
	"github.com/vilterp/pysubscript/pkg/versiontable"
)

// Bump when the diagnostic encoding changes, so stale entries stop
// matching.
const cacheFormat = "v2"

var diagnosticsBucket = []byte("__diagnostics__")

// resultCache stores each file's diagnostics keyed by its name, content,
// target version and version table.
type resultCache struct {
	boltDB *bolt.DB
}

func openResultCache(path string) (*resultCache, error) {
	boltDB, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errors.Wrapf(err, "opening result cache %s", path)
	}
	if err := boltDB.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(diagnosticsBucket)
		return err
	}); err != nil {
		boltDB.Close()
		return nil, errors.Wrap(err, "creating diagnostics bucket")
	}
	return &resultCache{boltDB: boltDB}, nil
}

func cacheKey(table *versiontable.Table, filename string, src []byte, target pyversion.Version) []byte {
	sum := sha256.Sum256(src)
	return []byte(cacheFormat + "/" + table.Fingerprint() + "/" + target.String() + "/" + filename + "/" + hex.EncodeToString(sum[:]))
}

// get returns false if nothing is cached under key.
func (c *resultCache) get(key []byte) ([]diag.Diagnostic, bool, error) {
	var diags []diag.Diagnostic
	found := false
	err := c.boltDB.View(func(tx *bolt.Tx) error {
		encoded := tx.Bucket(diagnosticsBucket).Get(key)
		if encoded == nil {
			return nil
		}
		found = true
		return json.Unmarshal(encoded, &diags)
	})
	if err != nil {
		return nil, false, errors.Wrap(err, "reading result cache")
	}
	return diags, found, nil
}

func (c *resultCache) put(key []byte, diags []diag.Diagnostic) error {
	if diags == nil {
		diags = []diag.Diagnostic{}
	}
	encoded, err := json.Marshal(diags)
	if err != nil {
		return err
	}
	return errors.Wrap(c.boltDB.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(diagnosticsBucket).Put(key, encoded)
	}), "writing result cache")
}

func (c *resultCache) Close() error {
	return c.boltDB.Close()
}
