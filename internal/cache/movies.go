// Package cache implements the read-through cache for public movie
// listings.  Entries are JSON-serialized result sets keyed by a
// deterministic fingerprint of the five listing parameters.  The cache is
// never authoritative: a miss (absent key, Redis failure or corrupt
// payload) simply sends the caller back to the database, and every entry
// self-expires after its TTL even when pattern invalidation is skipped
// or fails.
package cache

import (
	"context"
	"encoding/json"
	"net/url"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/movierec/movie-recommendation-api/internal/model"
)

// keyPrefix namespaces all public listing keys so that pattern
// invalidation can enumerate exactly this surface and nothing else.
const keyPrefix = "publicMovies:"

// PublicMovies caches ordered public listing results in Redis.  A nil
// client disables the cache: Get always misses and writes are no-ops, so
// the API degrades to plain database reads.
type PublicMovies struct {
	rdb *redis.Client
	ttl time.Duration
	log *logrus.Logger
}

// NewPublicMovies builds a PublicMovies cache with the given entry TTL.
func NewPublicMovies(rdb *redis.Client, ttl time.Duration, log *logrus.Logger) *PublicMovies {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &PublicMovies{rdb: rdb, ttl: ttl, log: log}
}

// Key builds the cache key fingerprint for one combination of listing
// parameters.  All five parameters are always present in the encoded
// form, absent ones as an empty token, and url encoding escapes any
// separator characters inside values, so two distinct parameter tuples
// can never collide and the same tuple always yields the same key
// (url.Values.Encode sorts by key).
func (p *PublicMovies) Key(genre, year, minRating, maxRating, sortBy string) string {
	v := url.Values{
		"genre":     {genre},
		"year":      {year},
		"minRating": {minRating},
		"maxRating": {maxRating},
		"sortBy":    {sortBy},
	}
	return keyPrefix + v.Encode()
}

// Get looks up a cached listing.  The second return value reports a hit.
// A miss is never an error: absent keys, Redis failures and payloads that
// no longer unmarshal all return (nil, false) and let the caller rebuild
// the entry from the database.
func (p *PublicMovies) Get(ctx context.Context, key string) ([]model.Movie, bool) {
	if p.rdb == nil {
		return nil, false
	}
	bs, err := p.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			p.log.WithError(err).WithField("key", key).Warn("cache get failed")
		}
		return nil, false
	}
	var movies []model.Movie
	if err := json.Unmarshal(bs, &movies); err != nil {
		// Corrupt or stale-format payload: treat as a miss so the next
		// Put overwrites it.
		p.log.WithError(err).WithField("key", key).Warn("cache payload corrupt, treating as miss")
		return nil, false
	}
	return movies, true
}

// Put stores a listing under the given key.  The existing entry is
// deleted before the new value is written to guard against partial or
// stale-format collisions, and the entry expires after the configured
// TTL.  Failures are logged and swallowed; caching is best effort.
func (p *PublicMovies) Put(ctx context.Context, key string, movies []model.Movie) {
	if p.rdb == nil {
		return
	}
	payload, err := json.Marshal(movies)
	if err != nil {
		p.log.WithError(err).WithField("key", key).Warn("cache marshal failed")
		return
	}
	if err := p.rdb.Del(ctx, key).Err(); err != nil {
		p.log.WithError(err).WithField("key", key).Warn("cache pre-delete failed")
	}
	if err := p.rdb.Set(ctx, key, payload, p.ttl).Err(); err != nil {
		p.log.WithError(err).WithField("key", key).Warn("cache set failed")
	}
}

// InvalidateByPattern enumerates all keys matching the glob pattern on
// the server and deletes them one by one.  A failure to delete an
// individual key is logged and does not abort the remaining deletions:
// partial invalidation is tolerated because entries self-expire via TTL.
func (p *PublicMovies) InvalidateByPattern(ctx context.Context, pattern string) {
	if p.rdb == nil {
		return
	}
	iter := p.rdb.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		if err := p.rdb.Del(ctx, key).Err(); err != nil {
			p.log.WithError(err).WithField("key", key).Warn("cache invalidate: delete failed")
			continue
		}
		p.log.WithField("key", key).Debug("cache invalidate: key deleted")
	}
	if err := iter.Err(); err != nil {
		p.log.WithError(err).WithField("pattern", pattern).Warn("cache invalidate: scan failed")
	}
}

// InvalidateAll removes every cached public listing.  Called after any
// write that changes the public movie set.
func (p *PublicMovies) InvalidateAll(ctx context.Context) {
	p.InvalidateByPattern(ctx, keyPrefix+"*")
}
