package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/loc8r/loc8r-services/api/internal/config"
	mongodoc "github.com/loc8r/loc8r-services/api/internal/infrastructure/mongo"
	commonhttp "github.com/loc8r/loc8r-services/api/internal/interfaces/http/common"
	publichttp "github.com/loc8r/loc8r-services/api/internal/interfaces/http/public"
	locapp "github.com/loc8r/loc8r-services/api/internal/locations/application"
)

// Server は HTTP サーバーのライフサイクルを管理し、各ハンドラへ依存注入するコンポジションルート。
// インフラ初期化のみを担い、ドメインロジックは持たない。
type Server struct {
	logger           *log.Logger
	client           *mongo.Client
	database         *mongo.Database
	locationRepo     *mongodoc.LocationRepository
	locationQueries  locapp.LocationQueryService
	locationCommands locapp.LocationCommandService
	reviewService    locapp.ReviewService
	jwtSecret        []byte
	jwtIssuer        string
	jwtAudience      string
	addr             string
	allowedOrigins   []string
}

// Run はHTTPサーバーを起動し、ルーティングやミドルウェアを組み立てる。
func (s *Server) Run() error {
	if err := s.ensureIndexes(context.Background()); err != nil {
		s.logger.Printf("2dsphere インデックスの作成に失敗しました: %v", err)
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(withCORS(s.allowedOrigins))

	router.Get("/healthz", s.healthHandler())

	publicHandler := publichttp.NewHandler(publichttp.Config{
		Logger:           s.logger,
		LocationQueries:  s.locationQueries,
		LocationCommands: s.locationCommands,
		Reviews:          s.reviewService,
	})
	router.Route("/api", func(r chi.Router) {
		publicHandler.Register(r, s.authMiddleware)
	})

	httpServer := &http.Server{
		Addr:              s.addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Printf("HTTP サーバー起動: http://%s", s.addr)
		errChan <- httpServer.ListenAndServe()
	}()

	waitForShutdown(httpServer, errChan, s)
	return nil
}

// ensureIndexes は近傍検索の前提となる空間インデックスを起動時に保証する。
func (s *Server) ensureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.locationRepo.EnsureIndexes(ctx)
}

// withCORS は許可されたオリジン情報をもとに CORS ヘッダーを付与するミドルウェアを返す。
func withCORS(origins []string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{})
	allowAll := false
	for _, origin := range origins {
		origin = strings.TrimSpace(origin)
		if origin == "" {
			continue
		}
		if origin == "*" {
			allowAll = true
			continue
		}
		allowed[origin] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := strings.TrimSpace(r.Header.Get("Origin"))
			if origin == "" || (!allowAll && len(allowed) > 0 && !originAllowed(origin, allowed)) {
				if r.Method == http.MethodOptions {
					w.WriteHeader(http.StatusNoContent)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Authorization,Content-Type")
			w.Header().Set("Access-Control-Max-Age", "300")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// originAllowed は指定された Origin が許可リストに含まれるか判定する。
func originAllowed(origin string, allowed map[string]struct{}) bool {
	if len(allowed) == 0 {
		return true
	}
	_, ok := allowed[origin]
	return ok
}

// healthHandler は MongoDB への疎通確認を行い、監視系からのヘルスチェック要求に応える。
func (s *Server) healthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
			s.writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "degraded",
				"error":  err.Error(),
			})
			return
		}

		s.writeJSON(w, http.StatusOK, map[string]string{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	}
}

// authMiddleware は Authorization ヘッダーから JWT を検証し、認証済みユーザーをコンテキストへ詰める。
// シークレット未設定の場合は検証なしで通す（認証は外側のコラボレータとして扱う）。
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if len(s.jwtSecret) == 0 {
			next.ServeHTTP(w, r)
			return
		}

		authHeader := strings.TrimSpace(r.Header.Get("Authorization"))
		if authHeader == "" {
			s.writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Authorization ヘッダーがありません"})
			return
		}

		const bearerPrefix = "Bearer "
		if !strings.HasPrefix(authHeader, bearerPrefix) {
			s.writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Bearer トークンを指定してください"})
			return
		}

		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, bearerPrefix))
		if tokenString == "" {
			s.writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "アクセストークンが空です"})
			return
		}

		claims, err := s.parseAuthToken(tokenString)
		if err != nil {
			s.writeJSON(w, http.StatusUnauthorized, map[string]string{"message": err.Error()})
			return
		}

		user := commonhttp.AuthenticatedUser{
			ID:    claims.Subject,
			Name:  claims.Name,
			Email: claims.Email,
		}

		ctx := commonhttp.ContextWithUser(r.Context(), user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// parseAuthToken は署名検証と Issuer/Audience の整合性を確認する。
func (s *Server) parseAuthToken(tokenString string) (*authClaims, error) {
	claims := &authClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %s", token.Method.Alg())
		}
		return s.jwtSecret, nil
	}, jwt.WithLeeway(30*time.Second))

	if err != nil || !token.Valid {
		return nil, fmt.Errorf("アクセストークンが無効です")
	}
	if s.jwtIssuer != "" && claims.Issuer != s.jwtIssuer {
		return nil, fmt.Errorf("アクセストークンが無効です")
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("アクセストークンが無効です")
	}
	if s.jwtAudience != "" && !contains(claims.Audience, s.jwtAudience) {
		return nil, fmt.Errorf("アクセストークンが無効です")
	}

	return claims, nil
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

type authClaims struct {
	jwt.RegisteredClaims
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// writeJSON は JSON レスポンスの共通書き込み処理。
func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Printf("JSON エンコードに失敗: %v", err)
	}
}

// shutdown は MongoDB クライアントをタイムアウト付きで切断し、プロセス終了時のリソースリークを防ぐ。
func (s *Server) shutdown(ctx context.Context) {
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.client.Disconnect(shutdownCtx); err != nil {
		s.logger.Printf("MongoDB 切断時にエラー: %v", err)
	}
}

// waitForShutdown は ListenAndServe の終了と OS シグナルを監視し、graceful shutdown を実現する。
func waitForShutdown(httpServer *http.Server, errChan <-chan error, srv *Server) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			srv.logger.Fatalf("サーバーが異常終了: %v", err)
		}
	case sig := <-sigChan:
		srv.logger.Printf("シグナル %s を受信。サーバー停止処理を開始します。", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			srv.logger.Printf("サーバー停止時にエラー: %v", err)
		}
	}

	srv.shutdown(context.Background())
}

// New は Config と Mongo クライアントを受け取り、アプリケーションサービスとハンドラを組み立てた Server を返す。
func New(cfg config.Config, client *mongo.Client) *Server {
	srv := &Server{
		logger:         cfg.ServerLog,
		client:         client,
		database:       client.Database(cfg.MongoDatabase),
		jwtSecret:      append([]byte(nil), cfg.JWTSecret...),
		jwtIssuer:      cfg.JWTIssuer,
		jwtAudience:    cfg.JWTAudience,
		addr:           cfg.Addr,
		allowedOrigins: append([]string(nil), cfg.AllowedOrigins...),
	}

	srv.locationRepo = mongodoc.NewLocationRepository(srv.database, cfg.LocationCollection)
	srv.locationQueries = locapp.NewLocationQueryService(srv.locationRepo)
	srv.locationCommands = locapp.NewLocationCommandService(srv.locationRepo)
	srv.reviewService = locapp.NewReviewService(srv.locationRepo, cfg.ServerLog)

	return srv
}
