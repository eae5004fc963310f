package netio

import "time"

// Config 连接层参数
type Config struct {
	// 单次读取的块大小；读到的字节追加进连接的接收缓冲
	ReadChunk int
	// 每个连接的发送队列长度；满时丢弃新消息
	SendQueueSize int
	// 单次写超时；超时视为连接错误
	WriteTimeout time.Duration
	// 主动连接超时
	ConnectTimeout time.Duration
}

// DefaultConfig 默认参数
func DefaultConfig() *Config {
	return &Config{
		ReadChunk:      4096,
		SendQueueSize:  256,
		WriteTimeout:   5 * time.Second,
		ConnectTimeout: 3 * time.Second,
	}
}
