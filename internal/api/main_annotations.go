// @title           joe-stock API
// @version         1.0
// @description     Store inventory tags. Authenticate with an API token or a JWT.
// @BasePath        /
// @securityDefinitions.apikey BearerToken
// @in              header
// @name            Authorization
// @description     Type "Bearer" followed by a space and your token. Example: "Bearer js_xxx"
package api
