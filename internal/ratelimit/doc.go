// Package ratelimit throttles chat commands per user with expiring token
// buckets, keeping one noisy user from starving the search and notification
// paths for everyone else.
package ratelimit
