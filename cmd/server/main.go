package main

import (
	"log"
	"net/http"
	"os"

	"github.com/codequest/back/internal/api/handlers"
	"github.com/codequest/back/internal/api/routes"
	"github.com/codequest/back/internal/clients"
	"github.com/codequest/back/internal/config"
	"github.com/codequest/back/internal/repositories"
	"github.com/codequest/back/internal/services"
	"github.com/codequest/back/internal/utils"
	"github.com/joho/godotenv"
)

func main() {
	// 環境変数の読み込み
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	// データベース接続の初期化（リトライ機能付き）
	dbConfig := config.LoadDatabaseConfig()
	db, err := config.NewDatabaseWithRetry(dbConfig)
	if err != nil {
		log.Printf("❌ データベース接続に失敗しました: %v", err)
		log.Printf("⚠️ メモリベースのリポジトリを使用します")
	} else {
		defer db.Close()
	}

	// サービスの初期化
	emailService := services.NewEmailService()

	// AIクライアントを初期化（AI_PROVIDER/AI_MODELに基づく）
	aiClient := clients.NewAIClientFromEnv()

	// リポジトリを初期化（データベース接続が成功した場合はMySQL、失敗した場合はメモリベース）
	var userRepo repositories.UserRepository
	var sessionRepo repositories.SessionRepository
	var challengeRepo repositories.ChallengeRepository
	var solutionRepo repositories.SolutionRepository

	if db != nil {
		// MySQLベースのリポジトリを使用
		userRepo = repositories.NewMySQLUserRepository(db)
		sessionRepo = repositories.NewMemorySessionRepository() // Sessionは引き続きメモリベース
		challengeRepo = repositories.NewMySQLChallengeRepository(db)
		solutionRepo = repositories.NewMySQLSolutionRepository(db)
		log.Printf("✅ MySQLベースのリポジトリを初期化しました")
	} else {
		// メモリベースのリポジトリを使用
		userRepo = repositories.NewMemoryUserRepository()
		sessionRepo = repositories.NewMemorySessionRepository()
		challengeRepo = repositories.NewMemoryChallengeRepository()
		solutionRepo = repositories.NewMemorySolutionRepository()
		log.Printf("✅ メモリベースのリポジトリを初期化しました")
	}

	log.Printf("🤖 AIクライアントを初期化しました")

	// サービスを初期化
	promptLoader := utils.NewPromptLoader("prompts")
	authService := services.NewAuthService(userRepo, sessionRepo, emailService)
	aiChallengeService := services.NewAIChallengeService(aiClient, promptLoader)
	challengeService := services.NewChallengeService(challengeRepo, solutionRepo, aiChallengeService)

	// ハンドラーの初期化
	authHandler := handlers.NewAuthHandler(authService)
	challengeHandler := handlers.NewChallengeHandler(challengeService, authService)
	healthHandler := handlers.NewHealthHandler()

	// ルーターの設定
	router := routes.NewRouter(authHandler, challengeHandler, healthHandler)

	// サーバーの起動
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("🚀 CodeQuest Backend Server starting on port %s", port)
	log.Printf("📋 Available endpoints:")
	log.Printf("  - GET  /health")
	log.Printf("  - POST /api/login")
	log.Printf("  - POST /api/forgot-password")
	log.Printf("  - POST /api/logout")
	log.Printf("  - GET  /api/user-info")
	log.Printf("  - GET  /api/challenges?difficulty=<difficulty>&q=<query>&page=<page>")
	log.Printf("  - POST /api/challenges")
	log.Printf("  - POST /api/challenges/generate")
	log.Printf("  - GET  /api/challenges/{id}")
	log.Printf("  - POST /api/challenges/{id}/solutions")

	if err := http.ListenAndServe(":"+port, router); err != nil {
		log.Fatal("Server failed to start:", err)
	}
}
