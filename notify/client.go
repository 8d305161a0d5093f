package notify

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"bookkeeping/service"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"
)

const publishTimeout = 5 * time.Second

// Client 通过 fanout 交换机在多个实例间广播账本变更
// 每个实例绑定一个独占的临时队列，收到其他实例的变更后刷新本地缓存
type Client struct {
	conn     *amqp091.Connection
	channel  *amqp091.Channel
	exchange string
	queue    string
	origin   string
}

// NewClient 连接 AMQP 并声明交换机与本实例队列
func NewClient(url, exchange string) (*Client, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("连接 AMQP 失败: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("打开 AMQP 通道失败: %w", err)
	}

	c := &Client{
		conn:     conn,
		channel:  channel,
		exchange: exchange,
		origin:   uuid.NewString(),
	}
	if err := c.setup(); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

func (c *Client) setup() error {
	err := c.channel.ExchangeDeclare(
		c.exchange, // name
		"fanout",   // type
		true,       // durable
		false,      // auto-deleted
		false,      // internal
		false,      // no-wait
		nil,        // arguments
	)
	if err != nil {
		return fmt.Errorf("声明交换机失败: %w", err)
	}

	// 服务端命名的独占队列，连接断开即删除
	q, err := c.channel.QueueDeclare(
		"",    // name
		false, // durable
		true,  // delete when unused
		true,  // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return fmt.Errorf("声明队列失败: %w", err)
	}
	c.queue = q.Name

	if err := c.channel.QueueBind(c.queue, "", c.exchange, false, nil); err != nil {
		return fmt.Errorf("绑定队列失败: %w", err)
	}
	return nil
}

// Origin 本实例标识
func (c *Client) Origin() string {
	return c.origin
}

// NotifyChanged 广播一次账本变更
func (c *Client) NotifyChanged(ctx context.Context, kind service.ChangeKind, id string) error {
	body, err := NewChangeMessage(c.origin, kind, id).ToJSON()
	if err != nil {
		return fmt.Errorf("序列化变更消息失败: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = c.channel.PublishWithContext(
		ctx,
		c.exchange, // exchange
		"",         // routing key
		false,      // mandatory
		false,      // immediate
		amqp091.Publishing{
			ContentType: "application/json",
			Timestamp:   time.Now(),
			Body:        body,
		},
	)
	if err != nil {
		return fmt.Errorf("发布变更消息失败: %w", err)
	}
	return nil
}

// Consume 消费其他实例的变更消息，直到 ctx 结束或通道关闭
func (c *Client) Consume(ctx context.Context, handler func(*ChangeMessage) error) error {
	deliveries, err := c.channel.Consume(
		c.queue, // queue
		"",      // consumer
		false,   // auto-ack
		true,    // exclusive
		false,   // no-local
		false,   // no-wait
		nil,     // args
	)
	if err != nil {
		return fmt.Errorf("开始消费失败: %w", err)
	}

	log.Printf("开始监听账本变更: exchange=%s queue=%s", c.exchange, c.queue)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return errors.New("AMQP 消息通道已关闭")
			}
			if err := c.handle(d.Body, handler); err != nil {
				log.Printf("处理账本变更消息失败: %v", err)
				d.Nack(false, false)
				continue
			}
			d.Ack(false)
		}
	}
}

// handle 解析消息并交给 handler，本实例发出的消息直接忽略
func (c *Client) handle(body []byte, handler func(*ChangeMessage) error) error {
	msg, err := ChangeMessageFromJSON(body)
	if err != nil {
		return fmt.Errorf("解析变更消息失败: %w", err)
	}
	if msg.Origin == c.origin {
		return nil
	}
	return handler(msg)
}

// Close 关闭通道与连接
func (c *Client) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
