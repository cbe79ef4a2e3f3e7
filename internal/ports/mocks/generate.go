//go:generate mockgen -source=../order_store.go      -destination=./mock_order_store.go      -package=mocks
//go:generate mockgen -source=../customer_store.go   -destination=./mock_customer_store.go   -package=mocks
//go:generate mockgen -source=../product_store.go    -destination=./mock_product_store.go    -package=mocks
//go:generate mockgen -source=../notifiers.go        -destination=./mock_notifiers.go        -package=mocks
//go:generate mockgen -source=../order_cache.go      -destination=./mock_order_cache.go      -package=mocks
//go:generate mockgen -source=../validator.go        -destination=./mock_validator.go        -package=mocks
//go:generate mockgen -source=../logger.go           -destination=./mock_logger.go           -package=mocks
//go:generate mockgen -source=../message_consumer.go -destination=./mock_message_consumer.go -package=mocks
//go:generate mockgen -source=../checkout_service.go -destination=./mock_checkout_service.go -package=mocks

package mocks
