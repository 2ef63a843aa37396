package middleware

import (
	"log/slog"
	"math"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/jsamuelsen/api-integration/internal/adapters/http/dto"
	"github.com/jsamuelsen/api-integration/internal/domain/dataset"
	"github.com/jsamuelsen/api-integration/internal/domain/result"
	"github.com/jsamuelsen/api-integration/internal/platform/logging"
)

// PolicyFingridExternalAPI names the limiter guarding routes that call the
// upstream open-data API.
const PolicyFingridExternalAPI = "fingrid-external-api"

// RateLimitPolicy is a token bucket: Requests tokens refill evenly over
// Window, and up to Burst may be spent at once.
type RateLimitPolicy struct {
	Name     string
	Requests int
	Window   time.Duration
	Burst    int
}

// Limit returns the steady refill rate of the policy.
func (p RateLimitPolicy) Limit() rate.Limit {
	if p.Requests <= 0 || p.Window <= 0 {
		return rate.Inf
	}

	return rate.Limit(float64(p.Requests) / p.Window.Seconds())
}

// RateLimit returns middleware enforcing policy across all callers of the
// routes it is attached to. Rejected requests get the RateLimit problem
// payload (429) with a Retry-After hint.
func RateLimit(policy RateLimitPolicy) gin.HandlerFunc {
	limiter := rate.NewLimiter(policy.Limit(), max(policy.Burst, 1))

	return rateLimitWith(policy.Name, limiter)
}

func rateLimitWith(name string, limiter *rate.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		reservation := limiter.Reserve()
		if !reservation.OK() {
			reject(c, name, 0)
			return
		}

		if delay := reservation.Delay(); delay > 0 {
			// Hand the token back; the request is not served.
			reservation.Cancel()
			reject(c, name, delay)
			return
		}

		c.Next()
	}
}

func reject(c *gin.Context, policy string, retryAfter time.Duration) {
	logging.FromContext(c.Request.Context()).Warn("rate limit exceeded",
		slog.String("policy", policy),
		slog.String("path", c.Request.URL.Path),
		slog.Duration("retry_after", retryAfter),
	)

	if retryAfter > 0 {
		c.Header("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
	}

	problem, err := dto.ToProblemDetails(result.Failed(dataset.RateLimitExceeded), c.Request)
	if err != nil {
		// Unreachable: the outcome above is always a failure.
		panic(err)
	}

	dto.AbortWithProblem(c, problem)
}
