//go:build tinygo

package telemetry

import (
	"errors"
	"log/slog"
	"net/netip"
	"time"

	"github.com/soypat/lneto/tcp"
	"github.com/soypat/lneto/x/xnet"
	mqtt "github.com/soypat/natiu-mqtt"
)

// MQTT export is an alternative, lighter transport alongside the HTTP/OTLP
// path above: a fire-and-forget publish of the same metrics JSON payload to
// a broker, for deployments that already run an MQTT broker for other
// devices. Grounded in the root mqtt.go connect/publish sequence, stripped
// of its request/response/subscribe half since telemetry export has
// nothing to wait for a reply to.
const (
	mqttExportTimeout = 10 * time.Second
	mqttExportRetries = 2
)

var (
	mqttTCPRxBuf [512]byte
	mqttTCPTxBuf [1024]byte
	mqttUserBuf  [256]byte
)

var mqttPubFlags, _ = mqtt.NewPublishFlags(mqtt.QoS0, false, false)

// PublishMetricsMQTT connects to broker, publishes the current metrics
// queue as one JSON payload to topic, and disconnects. Returns the number
// of metric points published. A failed publish does not touch the metrics
// queue, so the next tick (HTTP or MQTT) still has them.
func PublishMetricsMQTT(s *xnet.StackAsync, broker netip.AddrPort, topic string, logger *slog.Logger) (int, error) {
	mu.Lock()
	count := MetricCount
	mu.Unlock()
	if count == 0 {
		return 0, nil
	}

	bodyLen := BuildMetricsJSON()
	if bodyLen == 0 {
		return 0, nil
	}

	var conn tcp.Conn
	err := conn.Configure(tcp.ConnConfig{
		RxBuf:             mqttTCPRxBuf[:],
		TxBuf:             mqttTCPTxBuf[:],
		TxPacketQueueSize: 3,
	})
	if err != nil {
		return 0, err
	}

	cfg := mqtt.ClientConfig{
		Decoder: mqtt.DecoderNoAlloc{UserBuffer: mqttUserBuf[:]},
	}
	client := mqtt.NewClient(cfg)

	var varconn mqtt.VariablesConnect
	clientID := make([]byte, 0, 24)
	clientID = append(clientID, "tinydash-"...)
	clientID = appendHexMQTT(clientID, uint16(s.Prand32()))
	varconn.SetDefaultMQTT(clientID)

	rstack := s.StackRetrying(5 * time.Millisecond)
	lport := uint16(s.Prand32()>>17) + 1024

	if err := rstack.DoDialTCP(&conn, lport, broker, mqttExportTimeout, mqttExportRetries); err != nil {
		conn.Abort()
		return 0, err
	}

	conn.SetDeadline(time.Now().Add(mqttExportTimeout))
	if err := client.StartConnect(&conn, &varconn); err != nil {
		closeMQTTConn(&conn, s, broker)
		return 0, err
	}

	retries := 30
	for retries > 0 && !client.IsConnected() {
		time.Sleep(100 * time.Millisecond)
		if err := client.HandleNext(); err != nil {
			if logger != nil {
				logger.Debug("telemetry:mqtt-handle-next", slog.String("err", err.Error()))
			}
		}
		retries--
	}
	if !client.IsConnected() {
		closeMQTTConn(&conn, s, broker)
		return 0, errors.New("mqtt connect timeout")
	}

	conn.SetDeadline(time.Now().Add(mqttExportTimeout))
	pubVar := mqtt.VariablesPublish{
		TopicName:        []byte(topic),
		PacketIdentifier: uint16(s.Prand32()),
	}
	if err := client.PublishPayload(mqttPubFlags, pubVar, BodyBuf[:bodyLen]); err != nil {
		closeMQTTConn(&conn, s, broker)
		return 0, err
	}

	client.Disconnect(errors.New("export complete"))
	closeMQTTConn(&conn, s, broker)

	mu.Lock()
	MetricHead = 0
	MetricCount = 0
	mu.Unlock()

	return count, nil
}

func closeMQTTConn(conn *tcp.Conn, s *xnet.StackAsync, addr netip.AddrPort) {
	conn.Close()
	for i := 0; i < 20 && !conn.State().IsClosed(); i++ {
		time.Sleep(100 * time.Millisecond)
	}
	conn.Abort()
	s.DiscardResolveHardwareAddress6(addr.Addr())
}

func appendHexMQTT(b []byte, v uint16) []byte {
	const hexDigits = "0123456789abcdef"
	return append(b,
		hexDigits[(v>>12)&0xf],
		hexDigits[(v>>8)&0xf],
		hexDigits[(v>>4)&0xf],
		hexDigits[v&0xf],
	)
}
