// @title           Hiring Portal API
// @version         1.0
// @description     API портала найма: кандидаты, назначения менеджерам, доска совета и админка.
// @contact.name    Hiring Portal
// @license.name    MIT
// @license.url     https://opensource.org/licenses/MIT
// @host            localhost:5000
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization

package main

import "hiring_backend/internal/cli"

func main() {
	cli.Execute()
}
