package types

const (
	ActionRabbitMQConnected       = "rabbitmq_connected"
	ActionRabbitConnectionClosed  = "rabbitmq_connection_closed"
	ActionRabbitConnectionClosing = "rabbitmq_connection_closing"
	ActionRabbitReconnected       = "rabbitmq_reconnection_success"

	ActionConfigReload     = "pricing_config_reload"
	ActionConfigRejected   = "pricing_config_rejected"
	ActionFareEvaluated    = "fare_evaluated"
	ActionSurgeUpdated     = "surge_rule_updated"
	ActionResolutionFailed = "fare_resolution_failed"
)
