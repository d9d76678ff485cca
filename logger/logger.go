package logger

import (
	"fmt"
	"os"
	"time"
)

// Console log helpers with a severity prefix. These write to stdout/stderr only;
// request logging against the database goes through AsyncLogger.

func timestamp() string {
	return time.Now().Format("2006-01-02 15:04:05")
}

func Success(message string) {
	fmt.Printf("[SUCCESS] %s | %s\n", timestamp(), message)
}

func Info(message string) {
	fmt.Printf("[INFO]    %s | %s\n", timestamp(), message)
}

func Warning(message string) {
	fmt.Printf("[WARN]    %s | %s\n", timestamp(), message)
}

func Debug(message string) {
	if os.Getenv("APP_DEBUG") == "true" {
		fmt.Printf("[DEBUG]   %s | %s\n", timestamp(), message)
	}
}

func Error(message string, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "[ERROR]   %s | %s: %v\n", timestamp(), message, err)
		return
	}
	fmt.Fprintf(os.Stderr, "[ERROR]   %s | %s\n", timestamp(), message)
}
