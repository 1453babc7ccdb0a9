package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"medical-appointment-booking/internal/domain/entity"
	"medical-appointment-booking/internal/domain/repository"
	"medical-appointment-booking/pkg/apperror"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// RedisDoctorKeyPrefix prefixes cached doctor profiles.
const RedisDoctorKeyPrefix = "doctor:profile:"

// Timeout for individual cache operations
const doctorCacheTimeout = 2 * time.Second

// DoctorCache stores doctor profiles by id. Get returns nil, nil on a miss.
type DoctorCache interface {
	Get(ctx context.Context, doctorID uuid.UUID) (*entity.DoctorProfile, error)
	Set(ctx context.Context, profile *entity.DoctorProfile) error
	Invalidate(ctx context.Context, doctorID uuid.UUID) error
}

type redisDoctorCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisDoctorCache returns a cache whose entries expire after ttl.
func NewRedisDoctorCache(client *redis.Client, ttl time.Duration) DoctorCache {
	return &redisDoctorCache{client: client, ttl: ttl}
}

func doctorKey(doctorID uuid.UUID) string {
	return RedisDoctorKeyPrefix + doctorID.String()
}

func (c *redisDoctorCache) Get(ctx context.Context, doctorID uuid.UUID) (*entity.DoctorProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, doctorCacheTimeout)
	defer cancel()

	raw, err := c.client.Get(ctx, doctorKey(doctorID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cached doctor %s: %w", doctorID, err)
	}

	var profile entity.DoctorProfile
	if err := json.Unmarshal(raw, &profile); err != nil {
		return nil, fmt.Errorf("decode cached doctor %s: %w", doctorID, err)
	}
	return &profile, nil
}

func (c *redisDoctorCache) Set(ctx context.Context, profile *entity.DoctorProfile) error {
	ctx, cancel := context.WithTimeout(ctx, doctorCacheTimeout)
	defer cancel()

	raw, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("encode doctor %s: %w", profile.UserID, err)
	}
	if err := c.client.Set(ctx, doctorKey(profile.UserID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache doctor %s: %w", profile.UserID, err)
	}
	return nil
}

func (c *redisDoctorCache) Invalidate(ctx context.Context, doctorID uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, doctorCacheTimeout)
	defer cancel()

	if err := c.client.Del(ctx, doctorKey(doctorID)).Err(); err != nil {
		return fmt.Errorf("invalidate doctor %s: %w", doctorID, err)
	}
	return nil
}

// DoctorDirectory resolves doctors through the cache, falling back to the
// database on a miss. Cache failures are logged and never fail a lookup.
type DoctorDirectory struct {
	db         *gorm.DB
	log        *logrus.Logger
	cache      DoctorCache
	doctorRepo repository.DoctorProfileRepository
}

func NewDoctorDirectory(db *gorm.DB, log *logrus.Logger, cache DoctorCache, doctorRepo repository.DoctorProfileRepository) *DoctorDirectory {
	return &DoctorDirectory{
		db:         db,
		log:        log,
		cache:      cache,
		doctorRepo: doctorRepo,
	}
}

// FindActive returns the doctor or ErrDoctorNotFound when the id is unknown
// or the account is inactive.
func (d *DoctorDirectory) FindActive(ctx context.Context, doctorID uuid.UUID) (*entity.DoctorProfile, error) {
	profile, err := d.cache.Get(ctx, doctorID)
	if err != nil {
		d.log.Warnf("Doctor cache read failed for %s: %+v", doctorID, err)
	}

	if profile == nil {
		profile, err = d.doctorRepo.FindByUserID(ctx, d.db, doctorID)
		if err != nil {
			d.log.Warnf("Failed to find doctor %s: %+v", doctorID, err)
			return nil, apperror.Internal("failed to load doctor", err)
		}
		if profile == nil {
			return nil, ErrDoctorNotFound
		}
		if err := d.cache.Set(ctx, profile); err != nil {
			d.log.Warnf("Doctor cache write failed for %s: %+v", doctorID, err)
		}
	}

	if !profile.IsActive() {
		return nil, ErrDoctorNotFound
	}
	return profile, nil
}

// Invalidate drops a doctor from the cache after an admin write.
func (d *DoctorDirectory) Invalidate(ctx context.Context, doctorID uuid.UUID) {
	if err := d.cache.Invalidate(ctx, doctorID); err != nil {
		d.log.Warnf("Doctor cache invalidation failed for %s: %+v", doctorID, err)
	}
}
