package services

import (
	"crypto/tls"
	"fmt"
	"log"
	"net/smtp"
	"os"
	"strings"
)

type EmailService interface {
	SendEmail(to, subject, body string) error
}

type emailService struct {
	smtpHost     string
	smtpPort     string
	smtpFrom     string
	smtpPassword string
}

func NewEmailService() EmailService {
	return &emailService{
		smtpHost:     os.Getenv("SMTP_HOST"),
		smtpPort:     os.Getenv("SMTP_PORT"),
		smtpFrom:     os.Getenv("SMTP_FROM"),
		smtpPassword: os.Getenv("SMTP_PASSWORD"),
	}
}

func (s *emailService) SendEmail(to, subject, body string) error {
	// 設定値の詳細チェック
	if s.smtpFrom == "" {
		log.Printf("SMTP設定エラー: SMTP_FROM が設定されていません")
		return fmt.Errorf("SMTP_FROM is not configured")
	}
	if s.smtpPassword == "" {
		log.Printf("SMTP設定エラー: SMTP_PASSWORD が設定されていません")
		return fmt.Errorf("SMTP_PASSWORD is not configured")
	}
	if s.smtpHost == "" {
		log.Printf("SMTP設定エラー: SMTP_HOST が設定されていません")
		return fmt.Errorf("SMTP_HOST is not configured")
	}
	if s.smtpPort == "" {
		log.Printf("SMTP設定エラー: SMTP_PORT が設定されていません")
		return fmt.Errorf("SMTP_PORT is not configured")
	}

	log.Printf("メール送信を開始します - To: %s, Subject: %s", to, subject)

	// メールメッセージの作成（正しいMIME形式）
	msg := []string{
		"From: " + s.smtpFrom,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=UTF-8",
		"",
		body,
	}
	message := strings.Join(msg, "\r\n")

	// SMTP認証の設定
	auth := smtp.PlainAuth("", s.smtpFrom, s.smtpPassword, s.smtpHost)

	// TLS設定
	tlsConfig := &tls.Config{
		InsecureSkipVerify: false,
		ServerName:         s.smtpHost,
	}

	// SMTP接続の確立
	serverAddr := s.smtpHost + ":" + s.smtpPort
	log.Printf("SMTP接続を試行中: %s", serverAddr)

	conn, err := tls.Dial("tcp", serverAddr, tlsConfig)
	if err != nil {
		log.Printf("TLS接続エラー: %v", err)
		return fmt.Errorf("failed to establish TLS connection: %w", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, s.smtpHost)
	if err != nil {
		log.Printf("SMTPクライアント作成エラー: %v", err)
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer client.Quit()

	// 認証
	if err := client.Auth(auth); err != nil {
		log.Printf("SMTP認証エラー: %v", err)
		return fmt.Errorf("SMTP authentication failed: %w", err)
	}

	// 送信元・送信先の設定
	if err := client.Mail(s.smtpFrom); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	// 本文の書き込み
	writer, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to open data writer: %w", err)
	}
	if _, err := writer.Write([]byte(message)); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	log.Printf("✅ メール送信完了 - To: %s", to)
	return nil
}
