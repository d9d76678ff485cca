package utils

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/jinzhu/now"
	"gorm.io/gorm"
)

// ScanTimeLayout is the wire format used by scanning devices.
const ScanTimeLayout = "02-01-2006, 15:04:05"

func ParseScanTime(value string) (time.Time, error) {
	t, err := time.ParseInLocation(ScanTimeLayout, strings.TrimSpace(value), time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid scan timestamp %q: %w", value, err)
	}
	return t, nil
}

// DayRange resolves a YYYY-MM-DD date into its [start, end] calendar-day window.
func DayRange(date string) (time.Time, time.Time, error) {
	day, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(date), time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid date %q: %w", date, err)
	}
	n := now.With(day)
	return n.BeginningOfDay(), n.EndOfDay(), nil
}

// RandomDigits returns n random decimal digits, first digit nonzero.
func RandomDigits(n int) string {
	var b strings.Builder
	b.WriteByte(byte('1' + rand.Intn(9)))
	for i := 1; i < n; i++ {
		b.WriteByte(byte('0' + rand.Intn(10)))
	}
	return b.String()
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteByte(byte(r))
		}
	}
	return b.String()
}

// codeBlock normalizes a unit code into a fixed 6-digit block for document
// number seeding. Non-numeric codes contribute whatever digits they carry.
func codeBlock(code string) string {
	d := digitsOnly(code)
	if len(d) > 6 {
		d = d[len(d)-6:]
	}
	for len(d) < 6 {
		d = "0" + d
	}
	return d
}

// SeedManifestNumber builds the initial manifest counter value for a new
// operator: YY + 4 random digits + 6-digit unit block + series 02001.
func SeedManifestNumber(code string) int64 {
	seed := time.Now().Format("06") + RandomDigits(4) + codeBlock(code) + "02001"
	n, _ := strconv.ParseInt(seed, 10, 64)
	return n
}

// SeedDRSNumber is the DRS counterpart, series 01001.
func SeedDRSNumber(code string) int64 {
	seed := time.Now().Format("06") + RandomDigits(4) + codeBlock(code) + "01001"
	n, _ := strconv.ParseInt(seed, 10, 64)
	return n
}

// ClaimManifestNumber atomically advances the operator's manifest counter and
// returns the claimed (pre-increment) number. A single UPDATE ... RETURNING
// keeps concurrent claims from ever yielding the same number; calling it
// inside the manifest-creation transaction makes a failed creation roll the
// counter back with everything else.
func ClaimManifestNumber(tx *gorm.DB, profileID uint) (string, error) {
	return claimSequence(tx, profileID, "next_manifest_seq")
}

// ClaimDRSNumber is the DRS counterpart of ClaimManifestNumber.
func ClaimDRSNumber(tx *gorm.DB, profileID uint) (string, error) {
	return claimSequence(tx, profileID, "next_drs_seq")
}

func claimSequence(tx *gorm.DB, profileID uint, column string) (string, error) {
	var claimed int64
	query := fmt.Sprintf(
		"UPDATE operator_profiles SET %s = %s + 1 WHERE id = ? RETURNING %s - 1",
		column, column, column,
	)
	if err := tx.Raw(query, profileID).Scan(&claimed).Error; err != nil {
		return "", err
	}
	if claimed <= 0 {
		return "", fmt.Errorf("operator profile %d has no %s counter", profileID, column)
	}
	return strconv.FormatInt(claimed, 10), nil
}

// SplitAwbSuffix splits an AWB-like identifier into its prefix and trailing
// numeric suffix, preserving the suffix width so the generated run keeps any
// leading zeros ("PKG0098" -> "PKG", 98, 4).
func SplitAwbSuffix(id string) (prefix string, suffix int64, width int, err error) {
	i := len(id)
	for i > 0 && id[i-1] >= '0' && id[i-1] <= '9' {
		i--
	}
	if i == len(id) {
		return "", 0, 0, fmt.Errorf("identifier %q has no numeric suffix", id)
	}
	suffix, err = strconv.ParseInt(id[i:], 10, 64)
	if err != nil {
		return "", 0, 0, fmt.Errorf("identifier %q suffix overflows: %w", id, err)
	}
	return id[:i], suffix, len(id) - i, nil
}

// JoinAwbSuffix reassembles an identifier from SplitAwbSuffix parts.
func JoinAwbSuffix(prefix string, suffix int64, width int) string {
	return prefix + fmt.Sprintf("%0*d", width, suffix)
}
