package mocks

// Regenerate with `go generate ./internal/mocks/`.

//go:generate go run go.uber.org/mock/mockgen -source=../core/cache.go -destination=mock_cache.go -package=mocks
//go:generate go run go.uber.org/mock/mockgen -source=../core/metrics.go -destination=mock_metrics.go -package=mocks
//go:generate go run go.uber.org/mock/mockgen -source=../identity/types.go -destination=mock_identity.go -package=mocks
//go:generate go run go.uber.org/mock/mockgen -source=../tui/app.go -destination=mock_tui.go -package=mocks
