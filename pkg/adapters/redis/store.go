package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/ports"
	backend "github.com/redis/go-redis/v9"
)

var _ ports.RecordStore = (*Store)(nil)

const (
	fieldStep        = "current_step"
	fieldSubmitted   = "submitted"
	fieldAgeBracket  = "age_bracket"
	fieldGender      = "gender_identity"
	fieldCompetences = "competences"
)

// patchScript applies HSET only when the record exists, so a patch can never
// resurrect an unknown id as a partial hash.
var patchScript = backend.NewScript(`
if redis.call("exists", KEYS[1]) == 0 then
	return 0
end
redis.call("hset", KEYS[1], unpack(ARGV))
return 1
`)

// Store implements ports.RecordStore using Redis.
// Each record is a hash; a counter allocates ids and a sorted set scored by id
// keeps creation order.
type Store struct {
	client *backend.Client
	prefix string
}

type Option func(*Store)

// WithPrefix sets the key prefix for records.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: "intake:application:",
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

func (s *Store) key(id string) string {
	return s.prefix + id
}

func (s *Store) indexKey() string {
	return s.prefix + "index"
}

func (s *Store) counterKey() string {
	return s.prefix + "seq"
}

// Create allocates an id and stores the initial record.
func (s *Store) Create(ctx context.Context) (string, error) {
	seq, err := s.client.Incr(ctx, s.counterKey()).Result()
	if err != nil {
		return "", fmt.Errorf("%w: failed to allocate id: %w", domain.ErrStoreUnavailable, err)
	}
	id := strconv.FormatInt(seq, 10)

	_, err = s.client.TxPipelined(ctx, func(pipe backend.Pipeliner) error {
		pipe.HSet(ctx, s.key(id), fieldStep, domain.FirstStep.String(), fieldSubmitted, "0")
		pipe.ZAdd(ctx, s.indexKey(), backend.Z{Score: float64(seq), Member: id})
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: failed to save record: %w", domain.ErrStoreUnavailable, err)
	}
	return id, nil
}

// Get retrieves a record.
func (s *Store) Get(ctx context.Context, id string) (domain.Record, error) {
	fields, err := s.client.HGetAll(ctx, s.key(id)).Result()
	if err != nil {
		return domain.Record{}, fmt.Errorf("%w: failed to get from redis: %w", domain.ErrStoreUnavailable, err)
	}
	if len(fields) == 0 {
		return domain.Record{}, domain.ErrRecordNotFound
	}
	rec, err := decodeRecord(id, fields)
	if err != nil {
		return domain.Record{}, domain.CorruptRecordError(id, err)
	}
	return rec, nil
}

// Patch writes the fields set in patch.
func (s *Store) Patch(ctx context.Context, id string, patch domain.Patch) error {
	if err := patch.Validate(); err != nil {
		return err
	}

	args, err := encodePatch(patch)
	if err != nil {
		return err
	}

	if len(args) == 0 {
		n, err := s.client.Exists(ctx, s.key(id)).Result()
		if err != nil {
			return fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
		}
		if n == 0 {
			return domain.ErrRecordNotFound
		}
		return nil
	}

	applied, err := patchScript.Run(ctx, s.client, []string{s.key(id)}, args...).Int()
	if err != nil {
		return fmt.Errorf("%w: failed to patch record: %w", domain.ErrStoreUnavailable, err)
	}
	if applied == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}

// List returns summaries in creation order.
func (s *Store) List(ctx context.Context) ([]domain.Summary, error) {
	ids, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list records: %w", domain.ErrStoreUnavailable, err)
	}
	if len(ids) == 0 {
		return []domain.Summary{}, nil
	}

	cmds := make([]*backend.SliceCmd, len(ids))
	_, err = s.client.Pipelined(ctx, func(pipe backend.Pipeliner) error {
		for i, id := range ids {
			cmds[i] = pipe.HMGet(ctx, s.key(id), fieldStep, fieldSubmitted)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list records: %w", domain.ErrStoreUnavailable, err)
	}

	out := make([]domain.Summary, 0, len(ids))
	for i, id := range ids {
		vals := cmds[i].Val()
		if len(vals) != 2 || vals[0] == nil {
			// Indexed but never fully written.
			continue
		}
		step, _ := vals[0].(string)
		submitted, _ := vals[1].(string)
		sum, err := decodeSummary(id, step, submitted)
		if err != nil {
			return nil, domain.CorruptRecordError(id, err)
		}
		out = append(out, sum)
	}
	return out, nil
}

// Ping checks that the server answers.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}
	return nil
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}

func encodePatch(p domain.Patch) ([]any, error) {
	var args []any
	if p.Step != nil {
		args = append(args, fieldStep, p.Step.String())
	}
	if p.Submit {
		args = append(args, fieldSubmitted, "1")
	}
	if p.AgeBracket != nil {
		args = append(args, fieldAgeBracket, string(*p.AgeBracket))
	}
	if p.GenderIdentity != nil {
		args = append(args, fieldGender, string(*p.GenderIdentity))
	}
	if p.Competences != nil {
		data, err := json.Marshal(domain.CompetenceSet(*p.Competences))
		if err != nil {
			return nil, fmt.Errorf("failed to marshal competences: %w", err)
		}
		args = append(args, fieldCompetences, string(data))
	}
	return args, nil
}

func decodeSummary(id, step, submitted string) (domain.Summary, error) {
	st, err := domain.ParseStep(step)
	if err != nil {
		return domain.Summary{}, err
	}
	sub, err := parseFlag(submitted)
	if err != nil {
		return domain.Summary{}, err
	}
	return domain.Summary{ID: id, CurrentStep: st, Submitted: sub}, nil
}

func decodeRecord(id string, fields map[string]string) (domain.Record, error) {
	sum, err := decodeSummary(id, fields[fieldStep], fields[fieldSubmitted])
	if err != nil {
		return domain.Record{}, err
	}
	rec := domain.Record{ID: id, CurrentStep: sum.CurrentStep, Submitted: sum.Submitted}

	if v, ok := fields[fieldAgeBracket]; ok {
		a, err := domain.ParseAgeBracket(v)
		if err != nil {
			return domain.Record{}, err
		}
		rec.AgeBracket = &a
	}
	if v, ok := fields[fieldGender]; ok {
		g, err := domain.ParseGenderIdentity(v)
		if err != nil {
			return domain.Record{}, err
		}
		rec.GenderIdentity = &g
	}
	if v, ok := fields[fieldCompetences]; ok {
		var raw []string
		if err := json.Unmarshal([]byte(v), &raw); err != nil {
			return domain.Record{}, fmt.Errorf("competences: %w", err)
		}
		set, err := domain.ParseCompetences(raw)
		if err != nil {
			return domain.Record{}, err
		}
		rec.Competences = set
	}
	return rec, nil
}

func parseFlag(v string) (bool, error) {
	switch v {
	case "1":
		return true, nil
	case "0", "":
		return false, nil
	}
	return false, errors.New("submitted: not a flag: " + strconv.Quote(v))
}
