package syncer

import "serenity/internal/core/domain"

// LocalQuotes is served when there is no session or no backend.
var LocalQuotes = []domain.Quote{
	{Text: "The purpose of our lives is to be happy.", Author: "Dalai Lama"},
	{Text: "Life is what happens when you're busy making other plans.", Author: "John Lennon"},
	{Text: "The future belongs to those who believe in the beauty of their dreams.", Author: "Eleanor Roosevelt"},
	{Text: "It is during our darkest moments that we must focus to see the light.", Author: "Aristotle"},
	{Text: "You are braver than you believe, stronger than you seem, and smarter than you think.", Author: "A.A. Milne"},
	{Text: "Be yourself; everyone else is already taken.", Author: "Oscar Wilde"},
	{Text: "In a gentle way, you can shake the world.", Author: "Mahatma Gandhi"},
	{Text: "The only way to do great work is to love what you do.", Author: "Steve Jobs"},
	{Text: "Keep your face always toward the sunshine, and shadows will fall behind you.", Author: "Walt Whitman"},
	{Text: "The only limit to our realization of tomorrow is our doubts of today.", Author: "Franklin D. Roosevelt"},
	{Text: "You are never too old to set another goal or to dream a new dream.", Author: "C.S. Lewis"},
	{Text: "It always seems impossible until it's done.", Author: "Nelson Mandela"},
	{Text: "Start where you are. Use what you have. Do what you can.", Author: "Arthur Ashe"},
	{Text: "With the new day comes new strength and new thoughts.", Author: "Eleanor Roosevelt"},
	{Text: "Try to be a rainbow in someone's cloud.", Author: "Maya Angelou"},
	{Text: "Success is not final, failure is not fatal: It is the courage to continue that counts.", Author: "Winston Churchill"},
	{Text: "Positive anything is better than negative nothing.", Author: "Elbert Hubbard"},
	{Text: "The best way to predict the future is to create it.", Author: "Peter Drucker"},
	{Text: "Act as if what you do makes a difference. It does.", Author: "William James"},
	{Text: "Don't wait. The time will never be just right.", Author: "Napoleon Hill"},
	{Text: "Every day may not be good... but there's something good in every day.", Author: "Alice Morse Earle"},
	{Text: "Be so happy that, when other people look at you, they become happy too.", Author: "Yoko Ono"},
	{Text: "Your mind is a powerful thing. When you fill it with positive thoughts, your life will start to change.", Author: "Unknown"},
	{Text: "Only in the darkness can you see the stars.", Author: "Martin Luther King Jr."},
	{Text: "Do what you can, with what you have, where you are.", Author: "Theodore Roosevelt"},
	{Text: "Life is like riding a bicycle. To keep your balance, you must keep moving.", Author: "Albert Einstein"},
	{Text: "Peace begins with a smile.", Author: "Mother Teresa"},
	{Text: "What lies behind us and what lies before us are tiny matters compared to what lies within us.", Author: "Ralph Waldo Emerson"},
	{Text: "Everything you've ever wanted is on the other side of fear.", Author: "George Addair"},
	{Text: "Difficult roads often lead to beautiful destinations.", Author: "Zig Ziglar"},
}
