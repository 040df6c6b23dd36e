package tablestore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// appendUniqueScript adds the key to the sheet's key set and pushes the row in one step.
var appendUniqueScript = redis.NewScript(`
if redis.call("SADD", KEYS[1], ARGV[1]) == 0 then
	return 0
end
redis.call("RPUSH", KEYS[2], ARGV[2])
return 1
`)

// RedisStore keeps each sheet as a list of JSON-encoded rows.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a RedisStore whose keys all start with prefix.
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) rowsKey(sheet string) string {
	return fmt.Sprintf("%s:%s:rows", s.prefix, sheet)
}

func (s *RedisStore) keysKey(sheet string, col int) string {
	return fmt.Sprintf("%s:%s:keys:%s", s.prefix, sheet, ColumnLetter(col))
}

// ReadRange returns the sheet's rows in push order.
func (s *RedisStore) ReadRange(ctx context.Context, rng Range) ([][]string, error) {
	encoded, err := s.client.LRange(ctx, s.rowsKey(rng.Sheet), 0, -1).Result()
	if err != nil {
		return nil, upstream(fmt.Sprintf("read %s", rng), err)
	}

	out := make([][]string, 0, len(encoded))
	for _, raw := range encoded {
		var row []string
		if err := json.Unmarshal([]byte(raw), &row); err != nil {
			return nil, upstream(fmt.Sprintf("decode row of %s", rng.Sheet), err)
		}
		out = append(out, project(rng, row))
	}
	return out, nil
}

// AppendRow pushes a row onto the end of the sheet.
func (s *RedisStore) AppendRow(ctx context.Context, rng Range, row []string) error {
	raw, err := json.Marshal(place(rng, row))
	if err != nil {
		return fmt.Errorf("encode row: %w", err)
	}
	if err := s.client.RPush(ctx, s.rowsKey(rng.Sheet), raw).Err(); err != nil {
		return upstream(fmt.Sprintf("append %s", rng), err)
	}
	return nil
}

// AppendRowUnique pushes the row only if its key was never seen for that sheet column.
func (s *RedisStore) AppendRowUnique(ctx context.Context, rng Range, keyIndex int, row []string) (bool, error) {
	if err := checkKey(keyIndex, row); err != nil {
		return false, err
	}

	raw, err := json.Marshal(place(rng, row))
	if err != nil {
		return false, fmt.Errorf("encode row: %w", err)
	}

	keys := []string{s.keysKey(rng.Sheet, rng.First+keyIndex), s.rowsKey(rng.Sheet)}
	added, err := appendUniqueScript.Run(ctx, s.client, keys, row[keyIndex], string(raw)).Int()
	if err != nil {
		return false, upstream(fmt.Sprintf("append %s", rng), err)
	}
	return added == 1, nil
}

// Ping checks the connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return upstream("ping redis", err)
	}
	return nil
}
