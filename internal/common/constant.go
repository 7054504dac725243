package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on outbound requests.
const AccessTokenHeaderName = "access_token"

// InstallationIDHeaderName is the gRPC metadata key carrying the client's
// installation id.
const InstallationIDHeaderName = "installation_id"

// PostsCollection is the remote collection holding feed posts.
const PostsCollection = "posts"

// TimestampField is the document field posts are ordered by.
const TimestampField = "timestamp"
