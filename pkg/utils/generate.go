package utils

import (
	"crypto/rand"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ==================== UUID ====================

func GenerateUUID() uuid.UUID {
	return uuid.New()
}

func ParseUUID(uuidStr string) (uuid.UUID, error) {
	return uuid.Parse(uuidStr)
}

func GenerateSessionToken() uuid.UUID {
	return uuid.New()
}

// ==================== TICKET CODE ====================

// Ticket codes have the fixed form TKT-XXXX-XXXX-XXXXXX-XXXXXX:
// event-id prefix, booking-id prefix, base36 millisecond timestamp,
// and 6 characters of crypto/rand entropy. The prefixes exist for human
// triage only; the unique index on tickets.qr_code is the authoritative
// collision backstop.
const ticketCodeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

var ticketCodePattern = regexp.MustCompile(`^TKT-[A-Z0-9]{4}-[A-Z0-9]{4}-[A-Z0-9]{6}-[A-Z0-9]{6}$`)

func GenerateTicketCode(eventID, bookingID uuid.UUID) string {
	eventPart := strings.ToUpper(strings.ReplaceAll(eventID.String(), "-", "")[:4])
	bookingPart := strings.ToUpper(strings.ReplaceAll(bookingID.String(), "-", "")[:4])

	timePart := strings.ToUpper(strconv.FormatInt(time.Now().UnixMilli(), 36))
	if len(timePart) > 6 {
		timePart = timePart[len(timePart)-6:]
	}
	for len(timePart) < 6 {
		timePart = "0" + timePart
	}

	randomPart := randomTicketSegment(6)

	return fmt.Sprintf("TKT-%s-%s-%s-%s", eventPart, bookingPart, timePart, randomPart)
}

// IsWellFormedTicketCode checks the structure only, so malformed scans can
// be rejected without a database lookup.
func IsWellFormedTicketCode(code string) bool {
	return ticketCodePattern.MatchString(code)
}

func randomTicketSegment(length int) string {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing means the process is in a bad state; fall
		// back to the timestamp so the storage uniqueness constraint can
		// still catch duplicates.
		ns := strconv.FormatInt(time.Now().UnixNano(), 36)
		return strings.ToUpper(ns[len(ns)-length:])
	}
	for i, b := range buf {
		buf[i] = ticketCodeCharset[int(b)%len(ticketCodeCharset)]
	}
	return string(buf)
}
