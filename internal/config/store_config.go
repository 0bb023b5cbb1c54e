package config

const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
	StoreSQLite = "sqlite"
)

func (v *Values) GetTokenStore() string {
	return v.TokenStore
}

func (v *Values) GetRedisAddr() string {
	return v.RedisAddr
}

func (v *Values) GetRedisPassword() string {
	return v.RedisPassword
}

func (v *Values) GetRedisDB() int {
	return v.RedisDB
}

func (v *Values) GetSQLitePath() string {
	return v.SQLitePath
}
