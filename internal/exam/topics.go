// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package internal_exam

// Seed pools for task generation. The generator samples these so repeated
// practice sessions do not converge on the same scenario.

var adviceScenarios = []string{
	"A friend wants to start a new hobby but can't decide between painting and photography",
	"A colleague is considering changing careers but is worried about job security",
	"A family member wants to adopt a pet but lives in a small apartment",
	"A neighbor is planning to renovate their house but has a limited budget",
	"A friend is thinking about moving to a new city but doesn't know anyone there",
	"A classmate wants to improve their English but struggles with speaking practice",
	"A coworker is considering taking a part-time job while studying",
	"A relative is planning a family vacation but can't decide on the destination",
	"A friend is thinking about buying their first car but has no experience",
	"A family member is considering taking online courses to upgrade their skills",
	"A neighbor wants to learn a new language but doesn't know the best approach",
	"A friend wants to save money for a big purchase but struggles with budgeting",
}

var advicePersons = []string{
	"A close friend who values your opinion",
	"A university classmate who trusts your judgment",
	"A work colleague who respects your experience",
	"A family member who often asks for your advice",
	"A neighbor who has become a good friend",
	"A former coworker who stayed in touch",
	"A friend from your hobby group",
}

var adviceContexts = []string{
	"personal development",
	"career advancement",
	"lifestyle changes",
	"financial planning",
	"health and wellness",
	"education and learning",
	"hobbies and interests",
	"work-life balance",
}

var experienceTopics = []string{
	"a special place you went to as a child",
	"a time when you had to suddenly change a plan",
	"a trip you took recently",
	"a time when you lost something important",
	"a memorable birthday celebration",
	"a journey that was particularly tough or challenging",
	"a time when you learned something new",
	"a difficult decision you had to make",
	"a moment when you felt proud of yourself",
	"a cultural tradition that is important to you",
	"a time when you helped someone",
	"a time when you overcame a fear",
}

var experienceTypes = []string{
	"Travel and exploration",
	"Education and learning",
	"Career and work",
	"Family and relationships",
	"Personal achievement",
	"Cultural experience",
	"Challenge and growth",
	"Community involvement",
}

var sceneSettings = []string{
	"Park on a sunny weekend afternoon",
	"Busy office during working hours",
	"Family celebration or party",
	"University campus during class time",
	"Airport terminal or train station",
	"Grocery store or supermarket",
	"Community festival or fair",
	"Museum or art gallery",
	"Farmers market or bazaar",
	"Coffee shop during peak hours",
	"Public library reading area",
}

var sceneTypes = []string{
	"Outdoor public space",
	"Indoor workplace",
	"Social gathering",
	"Educational setting",
	"Transportation hub",
	"Commercial establishment",
	"Community event",
	"Cultural venue",
	"Restaurant or cafe",
}

var predictionScenarios = []string{
	"Elementary school classroom during math lesson",
	"Community park playground on Saturday morning",
	"Downtown street market during lunch hour",
	"University student center during exam period",
	"Shopping mall food court during weekend",
	"Office meeting room during team presentation",
	"Restaurant kitchen during dinner rush",
	"Airport departure gate before boarding",
	"City bus stop during morning commute",
	"Sports stadium before game starts",
	"School cafeteria during lunch break",
}

var predictionElements = []string{
	"people's actions and movements",
	"upcoming events or activities",
	"social interactions",
	"potential problems or challenges",
	"emotional reactions",
	"time-based changes",
	"cause and effect relationships",
}

var comparisonCategories = []string{
	"houses", "cars", "vacation packages", "laptops", "apartments",
	"fitness memberships", "restaurants for a celebration", "smartphones",
}

var comparisonDecisionMakers = []string{
	"a family member", "a close friend", "a colleague", "your partner", "a roommate",
}

var difficultSituations = []string{
	"Your neighbor's dog barks loudly every night and you cannot sleep",
	"A coworker keeps taking credit for work you did together",
	"A friend borrowed money months ago and has not mentioned it since",
	"Your landlord has not fixed a leaking pipe despite repeated requests",
	"Two friends invited you to different events on the same evening",
	"A relative keeps giving unwanted advice about how you raise your children",
	"Your team member consistently misses deadlines and it affects your work",
}

var relationshipContexts = []string{
	"long-time neighbors who usually get along well",
	"colleagues who must keep working together",
	"close friends since university",
	"a tenant and landlord with a formal relationship",
	"family members who see each other weekly",
}

var opinionTopics = []string{
	"Children should not be allowed to use smartphones until they are 16 years old",
	"All employees should be required to work from home at least two days per week",
	"Public transportation should be completely free for all citizens",
	"University education should be free for all students",
	"Fast food restaurants should be banned from advertising to children",
	"Online shopping is better than shopping in physical stores",
	"Traditional books are better than e-books",
	"People should be allowed to work a four-day work week",
	"All students should be required to learn a second language",
	"Social media has more negative effects than positive effects on society",
}

var opinionContextTypes = []string{
	"social policy debate",
	"workplace policy discussion",
	"educational policy consideration",
	"environmental policy debate",
	"technology regulation discussion",
	"consumer protection debate",
}

var unusualSituations = []string{
	"A person wearing winter coat and scarf on a hot beach day",
	"Someone reading a book upside down in a library",
	"A businessman in a suit riding a children's tricycle to work",
	"A chef cooking food on a barbecue grill in a snowstorm",
	"People having a picnic inside a car during sunny weather",
	"Someone using an umbrella indoors on a clear day",
	"A person painting a wall with a toothbrush instead of a brush",
	"Someone watering plants with a coffee cup instead of a watering can",
	"Someone trying to eat soup with a fork at a restaurant",
}

var unusualContexts = []string{
	"Urban street scene during daytime",
	"Indoor office environment",
	"Public park or recreation area",
	"Shopping mall or commercial space",
	"Residential neighborhood",
	"Beach or waterfront location",
	"Restaurant or dining establishment",
}

var emailScenarioThemes = []string{
	"a noise complaint to a building manager",
	"a request to a manager for flexible working hours",
	"an inquiry to a community center about programs for children",
	"a complaint to an online store about a damaged delivery",
	"a thank-you note to a former colleague who helped you find a job",
	"a request to a city office about a broken streetlight",
	"an invitation to neighbors for a community cleanup event",
}

var surveyThemes = []string{
	"whether the city should build a new library or a new sports complex",
	"whether your company should adopt a four-day work week",
	"whether a local park should add a dog run or a children's playground",
	"whether your apartment building should invest in a gym or a rooftop garden",
	"whether the community college should expand online or evening courses",
}

var readingTopics = []string{
	"a letter from a friend who recently immigrated to Canada",
	"an email exchange about planning a surprise retirement party",
	"a community newsletter about a neighborhood festival",
	"a workplace memo about new office recycling policies",
	"a letter about renovating a shared laundry room",
}

var listeningTopics = []string{
	"a conversation between neighbors about a lost cat",
	"a phone call to reschedule a dental appointment",
	"coworkers discussing plans for a team lunch",
	"a customer asking a hardware store clerk for advice",
	"two friends planning a weekend hiking trip",
	"a radio update about a road closure downtown",
}
