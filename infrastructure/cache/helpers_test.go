package cache_test

import "creative-assigner/infrastructure/configuration"

func configurationFixture() configuration.RedisClient {
	return configuration.RedisClient{
		Host:         "redis.internal",
		Port:         "6380",
		Username:     "svc",
		Password:     "secret",
		DatabaseName: "2",
	}
}
