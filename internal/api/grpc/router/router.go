package router

import (
	"context"
	"strings"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/auth"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/selector"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"

	"github.com/dtroode/fingerprint-server/internal/api/grpc/fingerprintpb"
	"github.com/dtroode/fingerprint-server/internal/api/grpc/handler"
	"github.com/dtroode/fingerprint-server/internal/api/grpc/middleware"
	"github.com/dtroode/fingerprint-server/internal/logger"
	"github.com/dtroode/fingerprint-server/internal/model"
)

// Public methods reachable without a bearer token.
var publicPrefixes = []string{
	"/grpc.health.v1.Health/",
	"/grpc.reflection.v1.ServerReflection/",
	"/grpc.reflection.v1alpha.ServerReflection/",
}

// Router represents a gRPC router for fingerprint operations.
// It manages gRPC service registration and middleware configuration.
type Router struct {
	fingerprintService handler.FingerprintService
	tokenService       middleware.TokenService
	contextManager     model.ContextManager
	health             *health.Server
	logger             *logger.Logger
}

// New creates new gRPC Router instance.
func New(
	fingerprintService handler.FingerprintService,
	tokenService middleware.TokenService,
	contextManager model.ContextManager,
	logger *logger.Logger,
) *Router {
	return &Router{
		fingerprintService: fingerprintService,
		tokenService:       tokenService,
		contextManager:     contextManager,
		health:             health.NewServer(),
		logger:             logger,
	}
}

func authRequired(_ context.Context, c interceptors.CallMeta) bool {
	for _, prefix := range publicPrefixes {
		if strings.HasPrefix(c.FullMethod(), prefix) {
			return false
		}
	}
	return true
}

func (r *Router) recover(p any) error {
	r.logger.Error("gRPC handler panicked", "panic", p)
	return status.Error(codes.Internal, "internal: internal server error")
}

// Register registers all gRPC services and middleware.
// It sets up the gRPC server with panic recovery, request logging and
// authentication interceptors.
//
// Returns the configured gRPC server instance.
func (r *Router) Register() *grpc.Server {
	logging := middleware.NewLogging(r.logger)
	authenticate := middleware.NewAuthenticate(r.tokenService, r.contextManager, r.logger)
	recoveryOpt := recovery.WithRecoveryHandler(r.recover)

	s := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			recovery.UnaryServerInterceptor(recoveryOpt),
			logging.HandleGRPC,
			selector.UnaryServerInterceptor(
				auth.UnaryServerInterceptor(authenticate.AuthFunc),
				selector.MatchFunc(authRequired),
			),
		),
		grpc.ChainStreamInterceptor(
			recovery.StreamServerInterceptor(recoveryOpt),
			logging.HandleGRPCStream,
			selector.StreamServerInterceptor(
				auth.StreamServerInterceptor(authenticate.AuthFunc),
				selector.MatchFunc(authRequired),
			),
		),
	)
	r.registerFingerprintRoutes(s)
	r.registerHealth(s)
	reflection.Register(s)

	return s
}

// Shutdown marks every service as not serving so health probes drain traffic.
func (r *Router) Shutdown() {
	r.health.Shutdown()
}

func (r *Router) registerFingerprintRoutes(server *grpc.Server) {
	fingerprintHandler := handler.NewFingerprint(r.fingerprintService, r.contextManager, r.logger)
	fingerprintpb.RegisterFingerprintServer(server, fingerprintHandler)
}

func (r *Router) registerHealth(server *grpc.Server) {
	healthpb.RegisterHealthServer(server, r.health)
	r.health.SetServingStatus(fingerprintpb.ServiceName, healthpb.HealthCheckResponse_SERVING)
}
