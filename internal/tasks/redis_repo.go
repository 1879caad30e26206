package tasks

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// createScript adds the hash entry and the list entry as one step. Redis
// does not roll back a script that fails halfway, so a failed RPUSH
// removes the hash entry again before the error is returned.
var createScript = redis.NewScript(`
if redis.call('HSETNX', KEYS[1], ARGV[1], ARGV[2]) == 0 then
	return 0
end
local pushed = redis.pcall('RPUSH', KEYS[2], ARGV[1])
if type(pushed) == 'table' and pushed.err then
	redis.call('HDEL', KEYS[1], ARGV[1])
	return pushed
end
return 1
`)

// RedisRepo keeps each task as JSON in a hash keyed by id and the ids,
// in insertion order, in a list.
type RedisRepo struct {
	rdb     *redis.Client
	hashKey string
	listKey string
}

func NewRedisRepo(rdb *redis.Client, prefix string) *RedisRepo {
	if prefix == "" {
		prefix = "tasks"
	}
	return &RedisRepo{
		rdb:     rdb,
		hashKey: prefix + ":items",
		listKey: prefix + ":order",
	}
}

func (r *RedisRepo) Create(ctx context.Context, t Task) (Task, error) {
	payload, err := json.Marshal(t)
	if err != nil {
		return Task{}, err
	}
	added, err := createScript.Run(ctx, r.rdb, []string{r.hashKey, r.listKey}, t.ID, payload).Int()
	if err != nil {
		return Task{}, fmt.Errorf("redis create: %w", err)
	}
	if added == 0 {
		return Task{}, ErrDuplicateID
	}
	return t, nil
}

func (r *RedisRepo) List(ctx context.Context) ([]Task, error) {
	ids, err := r.rdb.LRange(ctx, r.listKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis lrange: %w", err)
	}
	out := make([]Task, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	vals, err := r.rdb.HMGet(ctx, r.hashKey, ids...).Result()
	if err != nil {
		return nil, fmt.Errorf("redis hmget: %w", err)
	}
	for i, v := range vals {
		s, ok := v.(string)
		if !ok {
			// listed id without a hash entry
			continue
		}
		var t Task
		if err := json.Unmarshal([]byte(s), &t); err != nil {
			return nil, fmt.Errorf("decode task %s: %w", ids[i], err)
		}
		out = append(out, t)
	}
	return out, nil
}

func (r *RedisRepo) Close() error { return r.rdb.Close() }
