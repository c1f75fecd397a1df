package main

import (
	"log"
	"net/http"

	"github.com/koinonia-app/backend/internal/middleware"
	"github.com/koinonia-app/backend/pkg/router"
	"github.com/koinonia-app/backend/pkg/xcontext"

	"github.com/urfave/cli/v2"
)

func (s *srv) startApi(*cli.Context) error {
	s.loadContext()
	s.ctx = xcontext.WithDB(s.ctx, s.newDatabase())
	s.migrateDB()
	s.loadRedisClient()
	s.loadStorage()
	s.loadCatalog()
	s.loadHub()
	s.loadRepos()
	s.loadDomains()
	s.loadRouter()

	cfg := xcontext.Configs(s.ctx)
	s.server = &http.Server{
		Addr:    cfg.ApiServer.Address(),
		Handler: s.router.Handler(),
	}

	log.Printf("Starting server on port: %s\n", cfg.ApiServer.Port)
	if err := s.server.ListenAndServe(); err != nil {
		panic(err)
	}
	log.Printf("server stop")
	return nil
}

func (s *srv) loadRouter() {
	s.router = router.New(s.ctx)
	s.router.AddCloser(middleware.Logger())

	authVerifier := middleware.NewAuthVerifier().WithAccessToken()
	onlyAdmin := middleware.NewOnlyAdmin(s.userRepo)

	// Auth API
	authRouter := s.router.Branch()
	authRouter.After(middleware.HandleSaveSession())
	{
		router.GET(authRouter, "/oauth2/verify", s.authDomain.OAuth2Verify)
		router.POST(authRouter, "/refresh", s.authDomain.Refresh)
		router.POST(authRouter, "/logout", s.authDomain.Logout)
	}

	// These following APIs know the caller when a token is present but do not
	// require one.
	publicRouter := s.router.Branch()
	publicRouter.Before(authVerifier.Middleware())
	{
		router.GET(publicRouter, "/getPosts", s.postDomain.GetList)
		router.GET(publicRouter, "/getPost", s.postDomain.Get)
		router.GET(publicRouter, "/getEvents", s.eventDomain.GetList)
		router.GET(publicRouter, "/getCurrentChallenge", s.challengeDomain.GetCurrent)
		router.GET(publicRouter, "/getChallengeParticipants", s.challengeDomain.GetParticipants)
		router.GET(publicRouter, "/getLeaderboard", s.statisticDomain.GetLeaderboard)
	}

	// These following APIs need authentication with an Access Token.
	authedRouter := s.router.Branch()
	authedRouter.Before(authVerifier.Middleware())
	authedRouter.Before(middleware.Authenticate)
	{
		// User API
		router.GET(authedRouter, "/getMe", s.userDomain.GetMe)
		router.GET(authedRouter, "/getUser", s.userDomain.GetUser)
		router.POST(authedRouter, "/updateUser", s.userDomain.Update)
		router.POST(authedRouter, "/uploadAvatar", s.userDomain.UploadAvatar)

		// Task API
		router.GET(authedRouter, "/getMyAssignments", s.taskDomain.GetMyAssignments)
		router.POST(authedRouter, "/toggleAssignment", s.taskDomain.Toggle)
		router.POST(authedRouter, "/startFocus", s.taskDomain.StartFocus)

		// Challenge API
		router.POST(authedRouter, "/joinChallenge", s.challengeDomain.Join)
		router.GET(authedRouter, "/getQuiz", s.quizDomain.Get)
		router.POST(authedRouter, "/submitQuiz", s.quizDomain.Submit)

		// Reward API
		router.GET(authedRouter, "/getMyTransactions", s.rewardDomain.GetMyTransactions)
		router.GET(authedRouter, "/getMyBalance", s.rewardDomain.GetMyBalance)
		router.GET(authedRouter, "/getMyVerses", s.bonusDomain.GetMyVerses)

		// Prayer Wall API
		router.POST(authedRouter, "/createPrayerRequest", s.prayerDomain.Create)
		router.GET(authedRouter, "/getPrayerRequests", s.prayerDomain.GetList)
		router.POST(authedRouter, "/pray", s.prayerDomain.Pray)
		router.POST(authedRouter, "/deletePrayerRequest", s.prayerDomain.Delete)
		router.Websocket(authedRouter, "/servePrayerWall", s.prayerDomain.ServeWall)

		// Event API
		router.POST(authedRouter, "/rsvpEvent", s.eventDomain.RSVP)
		router.GET(authedRouter, "/getEventRSVPs", s.eventDomain.GetRSVPs)

		// Post API
		router.POST(authedRouter, "/likePost", s.postDomain.Like)
		router.POST(authedRouter, "/unlikePost", s.postDomain.Unlike)
		router.POST(authedRouter, "/deletePost", s.postDomain.Delete)

		// Chat API
		router.GET(authedRouter, "/getChannels", s.chatDomain.GetChannels)
		router.GET(authedRouter, "/getMessages", s.chatDomain.GetMessages)
		router.POST(authedRouter, "/sendMessage", s.chatDomain.SendMessage)
		router.Websocket(authedRouter, "/serveChannel", s.chatDomain.ServeChannel)

		// Notification API
		router.GET(authedRouter, "/getNotifications", s.notificationDomain.GetList)
		router.POST(authedRouter, "/markNotificationsRead", s.notificationDomain.MarkRead)
	}

	// These following APIs are restricted to admins.
	adminRouter := s.router.Branch()
	adminRouter.Before(authVerifier.Middleware())
	adminRouter.Before(middleware.Authenticate)
	adminRouter.Before(onlyAdmin.Middleware())
	{
		router.POST(adminRouter, "/createTask", s.taskDomain.Create)
		router.POST(adminRouter, "/updateTask", s.taskDomain.Update)
		router.POST(adminRouter, "/createChallenge", s.challengeDomain.Create)
		router.POST(adminRouter, "/createQuiz", s.quizDomain.Create)
		router.POST(adminRouter, "/createEvent", s.eventDomain.Create)
		router.POST(adminRouter, "/createPost", s.postDomain.Create)
		router.POST(adminRouter, "/createChannel", s.chatDomain.CreateChannel)

		router.GET(adminRouter, "/getPendingTransactions", s.rewardDomain.GetPendingTransactions)
		router.POST(adminRouter, "/reviewTransactions", s.rewardDomain.Review)
		router.POST(adminRouter, "/adjustCoins", s.rewardDomain.Adjust)
	}
}
