package service_test

import (
	"testing"
	"time"

	"canteenpos/internal/service"

	"github.com/stretchr/testify/assert"
)

func TestTransactionNumberFormat(t *testing.T) {
	day := time.Date(2026, 1, 2, 9, 30, 0, 0, time.UTC)

	assert.Equal(t, "010226-PC07-SEQ01", service.TransactionNumber(day, 7, 1))
	assert.Equal(t, "010226-PC35-SEQ12", service.TransactionNumber(day, 35, 12))
	assert.Equal(t, "010226-WI-SEQ03", service.TransactionNumber(day, 0, 3))
}

func TestSeqFromTransactionNumber(t *testing.T) {
	assert.Equal(t, int64(1), service.SeqFromTransactionNumber("010226-PC07-SEQ01"))
	assert.Equal(t, int64(12), service.SeqFromTransactionNumber("010226-PC35-SEQ12"))
	assert.Equal(t, int64(3), service.SeqFromTransactionNumber("010226-WI-SEQ03"))
	assert.Equal(t, int64(0), service.SeqFromTransactionNumber(""))
	assert.Equal(t, int64(0), service.SeqFromTransactionNumber("010226-PC07"))
	assert.Equal(t, int64(0), service.SeqFromTransactionNumber("010226-WI-SEQxx"))
}

func TestStationAlias(t *testing.T) {
	assert.Equal(t, "PC-01", service.StationAlias(1))
	assert.Equal(t, "PC-35", service.StationAlias(35))
	assert.Equal(t, "WI", service.StationAlias(0))
	assert.Equal(t, "WI", service.StationAlias(-1))
}

func TestStationFromAlias(t *testing.T) {
	assert.Equal(t, 7, service.StationFromAlias("PC-07"))
	assert.Equal(t, 35, service.StationFromAlias("PC-35"))
	assert.Equal(t, 0, service.StationFromAlias("WI"))
	assert.Equal(t, 0, service.StationFromAlias("garbage"))
}
