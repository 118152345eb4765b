package rabbitmq

// ExchangeName — обменник событий провижининга учетных записей.
const ExchangeName = "provisioning"

// Очереди и ключи маршрутизации событий провижининга.
const (
	UserCreatedQueue      = "user_created_queue"
	UserCreatedRoutingKey = "user.created"
	UserDeletedQueue      = "user_deleted_queue"
	UserDeletedRoutingKey = "user.deleted"
)

// QueueConfig описывает очередь и ее ключ маршрутизации.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// GetProvisioningQueues возвращает очереди событий провижининга.
func GetProvisioningQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: UserCreatedQueue, RoutingKey: UserCreatedRoutingKey},
		{QueueName: UserDeletedQueue, RoutingKey: UserDeletedRoutingKey},
	}
}
