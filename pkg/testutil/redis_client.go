package testutil

import "context"

type MockRedisClient struct {
	ExistFunc     func(ctx context.Context, key string) (bool, error)
	DelFunc       func(ctx context.Context, keys ...string) error
	IncrByFunc    func(ctx context.Context, key string, value int64) (int64, error)
	GetDelIntFunc func(ctx context.Context, key string) (int64, error)
	SAddFunc      func(ctx context.Context, key string, members ...string) error
	SRemFunc      func(ctx context.Context, key string, members ...string) error
	SMembersFunc  func(ctx context.Context, key string) ([]string, error)
}

func (m *MockRedisClient) Exist(ctx context.Context, key string) (bool, error) {
	if m.ExistFunc != nil {
		return m.ExistFunc(ctx, key)
	}

	return false, nil
}

func (m *MockRedisClient) Del(ctx context.Context, keys ...string) error {
	if m.DelFunc != nil {
		return m.DelFunc(ctx, keys...)
	}

	return nil
}

func (m *MockRedisClient) IncrBy(ctx context.Context, key string, value int64) (int64, error) {
	if m.IncrByFunc != nil {
		return m.IncrByFunc(ctx, key, value)
	}

	return value, nil
}

func (m *MockRedisClient) GetDelInt(ctx context.Context, key string) (int64, error) {
	if m.GetDelIntFunc != nil {
		return m.GetDelIntFunc(ctx, key)
	}

	return 0, nil
}

func (m *MockRedisClient) SAdd(ctx context.Context, key string, members ...string) error {
	if m.SAddFunc != nil {
		return m.SAddFunc(ctx, key, members...)
	}

	return nil
}

func (m *MockRedisClient) SRem(ctx context.Context, key string, members ...string) error {
	if m.SRemFunc != nil {
		return m.SRemFunc(ctx, key, members...)
	}

	return nil
}

func (m *MockRedisClient) SMembers(ctx context.Context, key string) ([]string, error) {
	if m.SMembersFunc != nil {
		return m.SMembersFunc(ctx, key)
	}

	return nil, nil
}
