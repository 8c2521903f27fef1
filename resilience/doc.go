// Package resilience provides the optional guards the REST transport can
// put in front of every send: a circuit breaker and a rate limiter.
//
// Both are off unless configured:
//
//	http:
//	  circuit_breaker:
//	    max_failures: 5
//	    open_timeout: 30s
//	  rate_limiter:
//	    rate: 10
//	    burst: 20
package resilience
