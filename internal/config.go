package internal

import "time"

type Config struct {
	BrokerURL string `env:"MQTT_BROKER_URL,default=tcp://localhost:1883"`
	BaseTopic string `env:"MQTT_TOPIC,default=chat/messages"`

	UserID   string `env:"CHAT_USER_ID,required=true"`
	UserName string `env:"CHAT_USER_NAME,required=true"`

	BadgerFilepath string `env:"BADGER_FILEPATH,required=true"`
	BlugeFilepath  string `env:"BLUGE_FILEPATH,required=true"`
	LogLevel       string `env:"LOG_LEVEL,default=INFO"`

	BufferSize      int           `env:"BUFFER_SIZE,default=64"`
	ReceiptDelay    time.Duration `env:"RECEIPT_DELAY,default=2s"`
	TypingDuration  time.Duration `env:"TYPING_DURATION,default=3s"`
	HistoryLimit    int           `env:"HISTORY_LIMIT,default=10"`
	TimelineLimit   int           `env:"TIMELINE_LIMIT,default=200"`
	RestartInterval time.Duration `env:"RESTART_INTERVAL,default=200ms"`
}
